package telegram

const welcomeText = `🏋️ Welcome to the Gym Tracker! 💪

I'm your AI-powered workout tracking assistant. I'll help you log your exercises, track progress, and follow your progressive overload plan.

Getting Started:
1. Set your current week: /setweek
2. Set your workout day: /setday
3. Start logging exercises by telling me what you did!

Available Commands:
/help - Show all commands
/status - See your current week and day
/today - Today's workout schedule
/week - This week's progress
/schedule - View workout schedule for any day
/nextweek - Move to next week

Ready to crush some sets? Let's go! 🔥`

const helpText = `Gym Tracker Commands:

📅 Setup:
/setweek - Set your current week (1-6)
/setday - Set your workout day (1-4)
/status - View your current week and day

📝 Logging:
Just message me what you did! Examples:
- "3 sets of 10 reps bench press at 60kg"
- "BP 3x10 @ 60kg"
- "Just finished 3 sets of pull-ups"

📊 Progress:
/today - See today's workout schedule
/week - View this week's progress
/schedule - View schedule for any day
/history - See an exercise's logged weeks
/nextweek - Move to the next week

💡 Tips:
- I understand natural language!
- I know Spanish and English exercise names
- Tell me sets, reps, and weight, and I'll log it
- Progressive overload is built in - sets increase each week!`

const parseFailText = `❌ I couldn't understand that exercise. Try being more specific!

Examples:
- '3 sets of 10 reps bench press'
- 'Bench press 3x10 @ 60kg'`
