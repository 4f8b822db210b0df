package telegram

import (
	"context"
	"strings"
)

// commandHandler answers a slash command.
type commandHandler func(ctx context.Context, c *Connector, userID, chatID int64)

type commandRegistry struct {
	handlers map[string]commandHandler
}

func (c *Connector) setupCommands() {
	c.commands = &commandRegistry{handlers: map[string]commandHandler{
		"/start": handleStart,
		"/reset": handleReset,
		"/help":  handleHelp,
	}}
}

func (r *commandRegistry) isCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

func (r *commandRegistry) handle(ctx context.Context, c *Connector, userID, chatID int64, text string) {
	command := strings.SplitN(text, " ", 2)[0]
	// Strip the @botname suffix of group-style commands.
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	handler, ok := r.handlers[command]
	if !ok {
		c.reply(ctx, chatID, "No conozco ese comando 🤔. Probá /help.")
		return
	}
	handler(ctx, c, userID, chatID)
}

func handleStart(ctx context.Context, c *Connector, userID, chatID int64) {
	c.firstContact(ctx, userID) // marks the user seen either way
	c.sendWelcome(ctx, chatID)
}

func handleReset(ctx context.Context, c *Connector, userID, chatID int64) {
	c.coalescer.Discard(userID)
	c.reply(ctx, chatID, c.service.Reset(ctx, userID))
}

func handleHelp(ctx context.Context, c *Connector, _, chatID int64) {
	c.reply(ctx, chatID, "Preguntame por comercios y servicios de City Bell, Gonnet y Villa Elisa.\n\n"+
		"• Escribime qué buscás: \"pizzería abierta\", \"plomero urgente\"\n"+
		"• Mandame tu ubicación 📍 y ordeno por cercanía\n"+
		"• También entiendo audios 🎙️\n\n"+
		"Comandos: /reset borra la conversación, /help muestra esta ayuda.")
}
