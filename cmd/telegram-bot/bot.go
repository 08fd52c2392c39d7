package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"todo-board/internal/logger"
	"todo-board/internal/manager"
	"todo-board/internal/models"
)

const helpText = `Commands:
/add <task> - add a task, #word sets the category
/list - show your tasks
/done <id> - mark a task completed
/reopen <id> - mark a task active again
/delete <id> - delete a task
/clear - delete completed tasks
/help - show this message

Any other text is added as a task.`

// sender is the part of tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api         sender
	taskManager *manager.TaskManager
}

func NewBot(api sender, tm *manager.TaskManager) *Bot {
	return &Bot{api: api, taskManager: tm}
}

// Run handles updates until the channel closes or ctx is done.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Chat == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	owner := chatOwner(msg.Chat.ID)
	ctx = logger.WithFields(ctx, "owner", owner)
	logger.Debug(ctx, "received message", "text", msg.Text)

	text := b.reply(ctx, owner, msg.Text)
	if text == "" {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, text)); err != nil {
		logger.Error(ctx, err, "failed to send message")
	}
}

func chatOwner(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

// parseCommand splits "/cmd@bot args" into its command and arguments.
func parseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	cmd, args, _ = strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(args), true
}

// reply runs the message against the owner's tasks and returns the answer text.
func (b *Bot) reply(ctx context.Context, owner, text string) string {
	cmd, args, ok := parseCommand(text)
	if !ok {
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return b.addTask(ctx, owner, text)
	}

	switch cmd {
	case "start", "help":
		return helpText
	case "add":
		if args == "" {
			return "Usage: /add Buy milk #shopping"
		}
		return b.addTask(ctx, owner, args)
	case "list":
		return b.listTasks(ctx, owner)
	case "done":
		return b.withTaskID(args, "done", func(id int64) (string, error) {
			return fmt.Sprintf("Task #%d completed", id), b.taskManager.CompleteTask(ctx, id, owner)
		})
	case "reopen":
		return b.withTaskID(args, "reopen", func(id int64) (string, error) {
			return fmt.Sprintf("Task #%d reopened", id), b.taskManager.ReopenTask(ctx, id, owner)
		})
	case "delete":
		return b.withTaskID(args, "delete", func(id int64) (string, error) {
			return fmt.Sprintf("Task #%d deleted", id), b.taskManager.DeleteTask(ctx, id, owner)
		})
	case "clear":
		removed, err := b.taskManager.ClearCompleted(ctx, owner)
		if err != nil {
			return "Error: " + err.Error()
		}
		return fmt.Sprintf("Removed %d completed tasks", removed)
	}
	return "Unknown command. Use /help for the list of commands."
}

func (b *Bot) withTaskID(args, cmd string, fn func(id int64) (string, error)) string {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Sprintf("Usage: /%s <task id>", cmd)
	}
	text, err := fn(id)
	if errors.Is(err, manager.ErrTaskNotFound) {
		return fmt.Sprintf("Task #%d not found", id)
	}
	if err != nil {
		return "Error: " + err.Error()
	}
	return text
}

// splitCategory takes the first #word as the category and strips it from the text.
func splitCategory(text string) (description, category string) {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if category == "" && len(w) > 1 && strings.HasPrefix(w, "#") {
			category = w[1:]
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " "), category
}

func (b *Bot) addTask(ctx context.Context, owner, text string) string {
	description, category := splitCategory(text)
	task, err := b.taskManager.AddTask(ctx, models.CreateTaskParams{
		Description: description,
		Category:    category,
		Owner:       owner,
	})
	if err != nil {
		return "Error: " + err.Error()
	}
	return fmt.Sprintf("Added task #%d: %s [%s]", task.ID, task.Description, task.Category)
}

func (b *Bot) listTasks(ctx context.Context, owner string) string {
	tasks, err := b.taskManager.ListTasks(ctx, models.FilterAll, owner)
	if err != nil {
		return "Error: " + err.Error()
	}
	if len(tasks) == 0 {
		return "Your list is empty"
	}

	var sb strings.Builder
	sb.WriteString("Your tasks:\n")
	for _, task := range tasks {
		status := "[ ]"
		if task.Completed {
			status = "[x]"
		}
		fmt.Fprintf(&sb, "%s #%d %s (%s, %s)\n", status, task.ID, task.Description, task.Category, task.Priority)
	}
	return sb.String()
}
