package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/talentscout/internal/config"
	"github.com/jonathan/talentscout/internal/conversation"
	"github.com/jonathan/talentscout/internal/fields"
	"github.com/jonathan/talentscout/internal/llm"
	"github.com/jonathan/talentscout/internal/store"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive screening conversation",
	Long: "Start an interactive screening conversation on stdin/stdout. Type exit, quit or bye " +
		"at any point to finish; the collected details are saved when an email address was given.",
	RunE: runChat,
}

var chatNoLLM bool

// maxLineBytes bounds a single line of chat input.
const maxLineBytes = 1 << 20

func init() {
	chatCmd.Flags().BoolVar(&chatNoLLM, "no-llm", false, "Use the built-in question set instead of the language model")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	var collaborator conversation.Collaborator
	if !chatNoLLM {
		assistant, closeClient := newAssistant(ctx, settings, logger)
		defer closeClient()
		if assistant != nil {
			collaborator = assistant
		}
	}

	engine := conversation.NewEngine(collaborator, logger)
	return chatSession(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), engine, st)
}

// newAssistant builds the language-model collaborator. When the provider
// cannot be set up it logs a warning and returns nil, and the conversation
// runs on the built-in questions.
func newAssistant(ctx context.Context, cfg config.Config, logger *slog.Logger) (*llm.Assistant, func()) {
	llmCfg := llm.DefaultGeminiConfig()
	if llm.Provider(cfg.Provider) == llm.ProviderVertex {
		llmCfg = llm.DefaultVertexConfig(cfg.GCPProject, cfg.GCPLocation)
	}
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierLite, cfg.Model).WithModel(llm.TierStandard, cfg.Model)
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		logger.Warn("language model unavailable, using built-in questions", slog.Any("error", err))
		return nil, func() {}
	}
	logger.Debug("language model ready",
		slog.String("provider", string(llmCfg.Provider)),
		slog.String("model", client.GetModel(llm.TierStandard)))
	return llm.NewAssistant(client), func() { _ = client.Close() }
}

// chatSession runs one conversation over in/out. The record is saved when the
// conversation ends, by exit keyword or end of input, and an email is present.
//
// A read failure still ends the conversation normally; the error is returned
// after the record has been saved.
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func chatSession(ctx context.Context, in io.Reader, out io.Writer, engine *conversation.Engine, st *store.FileStore) error {
	session := conversation.NewSession()
	fmt.Fprintf(out, "%s\n\n", engine.Greeting())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	ended := false
	for !ended {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		input := fields.SanitizeInput(scanner.Text())
		if input == "" {
			continue
		}

		resp := engine.Process(ctx, session, input)
		fmt.Fprintf(out, "\n%s\n\n", resp.Message)
		if resp.Advanced {
			done, total := session.Progress()
			fmt.Fprintf(out, "[%d/%d details collected]\n\n", done, total)
		}
		ended = resp.Ended
	}
	var readErr error
	if err := scanner.Err(); err != nil {
		readErr = fmt.Errorf("failed to read input: %w", err)
	}

	if !ended {
		fmt.Fprintf(out, "\n%s\n\n", conversation.FarewellMessage(session.Record))
	}
	if !session.Record.Has("email") {
		fmt.Fprintln(out, "No email address was provided, so nothing was saved.")
		return readErr
	}

	id, err := st.Save(session.Record)
	if err != nil {
		return errors.Join(readErr, fmt.Errorf("failed to save candidate: %w", err))
	}
	fmt.Fprintf(out, "Your candidate ID: %s\n", id)
	return readErr
}
