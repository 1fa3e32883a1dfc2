package command

const (
	msgTodoUsage     = "Usage: todo <description>"
	msgDeadlineUsage = "Usage: deadline <description> /by <yyyy-MM-dd HHmm>"
	msgEventUsage    = "Usage: event <description> /from <yyyy-MM-dd[ HHmm]> /to <yyyy-MM-dd HHmm>"
	msgMarkUsage     = "Usage: mark <task-number>"
	msgUnmarkUsage   = "Usage: unmark <task-number>"
	msgDeleteUsage   = "What do you want me to delete?\nUsage: delete <task-number>"
	msgFindUsage     = "Usage: find <keyword>"

	msgMarkBadNumber   = "Please provide a valid number after 'mark'."
	msgUnmarkBadNumber = "Please provide a valid number after 'unmark'."
	msgDeleteBadNumber = "Please provide a valid number after 'delete'."

	msgDeadlinePast  = "Deadline cannot be in the past."
	msgEventPast     = "Event cannot start in the past."
	msgEventBackward = "Event end must be on/after start."

	msgAdded      = "Got it. I've added this task:\n  "
	msgMarked     = "YAY! You've completed this task:\n  "
	msgUnmarked   = "OK, I've marked this task as not done yet:\n  "
	msgDeleted    = "Successfully deleted this task:\n  "
	msgListEmpty  = "Nothing on your agenda right now! Ready to get busy?"
	msgListHeader = "Here are your tasks:\n"
	msgFound      = "Here are the tasks I found:\n"
	msgNotFound   = "Hmm, I couldn't find any tasks matching that. Try a different keyword?"
	msgBye        = "Byebye! See you next time!"

	msgUnknown = "Sorry! Can't understand you.\n" +
		"Try: todo | deadline | event | list | mark <n> | unmark <n> | delete <n> | find <keyword> | bye"

	// HelpMessage answers a blank line on the chat surface.
	HelpMessage = "Try: todo | deadline | event | list | mark <n> | unmark <n> | delete <n> | find <keyword>"

	Greeting = "Hello! I'm Sid\nWhat can I do for you?"
)
