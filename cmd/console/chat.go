package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"scitech-bot/internal/bootstrap"
	"scitech-bot/internal/config"
	"scitech-bot/internal/constant"
	"scitech-bot/internal/dto"
	"scitech-bot/internal/service"
	"scitech-bot/pkg/events"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	userColor     = color.New(color.FgCyan, color.Bold)
	botColor      = color.New(color.FgGreen)
	systemColor   = color.New(color.FgYellow)
	analysisColor = color.New(color.FgMagenta)
	errorColor    = color.New(color.FgRed)
)

var exitWords = map[string]bool{"salir": true, "exit": true, "quit": true}

func newChatCmd(load func() *config.Config) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := load()
			container, err := bootstrap.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := container.Start(ctx); err != nil {
				return err
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return runChat(ctx, container.ChatService, cfg, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume a session id")
	return cmd
}

// runChat reads one message per line until EOF or an exit word
func runChat(ctx context.Context, chat service.IChatService, cfg *config.Config, sessionID string, in io.Reader, out io.Writer) error {
	systemColor.Fprintf(out, constant.WelcomeMessage+"\n", cfg.Chatbot.Description)
	systemColor.Fprintln(out, "Escribe 'salir' para terminar, 'analizar: <frase>' para ver su análisis.")

	scanner := bufio.NewScanner(in)
	for {
		userColor.Fprint(out, "Tú: ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if exitWords[strings.ToLower(strings.TrimSpace(line))] {
			break
		}

		res, err := chat.SendChat(ctx, events.ChannelConsole, &dto.ChatRequest{SessionID: sessionID, Mensaje: line})
		if err != nil {
			errorColor.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printReply(out, res)
	}

	fmt.Fprintln(out)
	systemColor.Fprintln(out, constant.FarewellMessage)
	return scanner.Err()
}

func printReply(out io.Writer, res *dto.ChatResponse) {
	if res.Regla == service.RuleAnalysis {
		analysisColor.Fprintln(out, res.Respuesta)
		return
	}

	botColor.Fprintf(out, "Bot: %s\n", res.Respuesta)

	var meta []string
	if res.TemaActual != "" {
		meta = append(meta, "tema: "+res.TemaActual)
	}
	if res.Sentimiento != nil {
		meta = append(meta, fmt.Sprintf("sentimiento: %s (%.2f)", res.Sentimiento.Descripcion, res.Sentimiento.Confianza))
	}
	if len(meta) > 0 {
		systemColor.Fprintf(out, "     [%s]\n", strings.Join(meta, ", "))
	}
}
