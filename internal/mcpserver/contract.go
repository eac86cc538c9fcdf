package mcpserver

// HabitModelContract describes the habit model that LLM consumers should
// assume when reading or toggling habits.
const HabitModelContract = `# Habitus Habit Model

## Habits

Each habit has an integer ` + "`" + `id` + "`" + `, a ` + "`" + `name` + "`" + `, a ` + "`" + `color` + "`" + ` (#RRGGBB),
a weekly ` + "`" + `target` + "`" + ` (1-7), a ` + "`" + `streak` + "`" + ` and a ` + "`" + `completed` + "`" + ` list of day slots.

## Day slots

The week starts on Sunday. Slot 1 is Sunday and slot 7 is Saturday.
Slots outside 1-7 are rejected.

## Toggling

- Toggling a day that is not completed marks it done and increments the streak.
- Toggling a completed day unmarks it and decrements the streak, never below zero.
- Omitting ` + "`" + `day` + "`" + ` toggles today.
- When a new week begins every completed list is cleared. Streaks are kept.

## Progress

- Habit progress is completed / target * 100 and may exceed 100.
- Overall progress is the sum of completed over the sum of targets.
- Display values are rounded to the nearest integer.
`
