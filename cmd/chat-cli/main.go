package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/parkerwhite/eqchat/internal/client/api"
	"github.com/parkerwhite/eqchat/internal/client/identity"
	"github.com/parkerwhite/eqchat/internal/client/session"
	"github.com/parkerwhite/eqchat/internal/client/settings"
	"github.com/parkerwhite/eqchat/internal/model/chat"
)

func main() {
	store, err := settings.DefaultStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate settings: %v\n", err)
		os.Exit(1)
	}

	if err := run(store); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(store *settings.Store) error {
	cfg, err := store.Load()
	if err != nil {
		return err
	}

	provider, err := identity.NewProvider(store)
	if err != nil {
		return err
	}

	// First launch mints an anonymous identity automatically.
	if _, ok := provider.CurrentUser(); !ok {
		user, err := provider.SignInAnonymously()
		if err != nil {
			return err
		}
		fmt.Printf("Signed in anonymously as %s\n", user.ID)
	}

	relay := api.NewClient(cfg.APIURL)
	sess := session.New(relay, provider)

	ctx := context.Background()
	sess.LoadHistory(ctx)

	fmt.Println("Welcome to EQ Chat. Type /help for commands.")
	printTranscript(sess.Messages())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("you: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "/") {
			if done := handleCommand(line, sess, provider, store, &cfg); done {
				return nil
			}
			continue
		}

		if err := sess.Send(ctx, line); err != nil {
			if errors.Is(err, session.ErrAuthRequired) {
				fmt.Println("You need to be signed in to send messages. Use /signin.")
				continue
			}
			// The optimistic message stays visible; only report the failure.
			fmt.Printf("Failed to send message: %v\n", err)
			continue
		}

		messages := sess.Messages()
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			if last.Role == chat.RoleAssistant {
				fmt.Printf("assistant: %s\n", last.Content)
			}
		}
	}
}

// handleCommand returns true when the REPL should exit.
func handleCommand(line string, sess *session.Session, provider *identity.Provider, store *settings.Store, cfg *settings.Settings) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		fmt.Println("Goodbye!")
		return true
	case "/clear":
		sess.Clear()
		printTranscript(sess.Messages())
	case "/signin":
		user, err := provider.SignInAnonymously()
		if err != nil {
			fmt.Printf("Sign-in failed: %v\n", err)
			break
		}
		fmt.Printf("Signed in anonymously as %s\n", user.ID)
	case "/signout":
		if err := provider.SignOut(); err != nil {
			fmt.Printf("Sign-out failed: %v\n", err)
			break
		}
		fmt.Println("Signed out")
	case "/server":
		if len(fields) < 2 {
			fmt.Printf("Relay server: %s\n", cfg.APIURL)
			break
		}
		// Read-modify-write so a stale snapshot cannot clobber the
		// identity minted after startup.
		if err := store.SetAPIURL(fields[1]); err != nil {
			fmt.Printf("Failed to save settings: %v\n", err)
			break
		}
		cfg.APIURL = fields[1]
		fmt.Println("Relay address saved. Restart to apply.")
	case "/help":
		fmt.Println("Commands: /clear /signin /signout /server [url] /quit")
	default:
		fmt.Println("Unknown command. Type /help for commands.")
	}
	return false
}

func printTranscript(messages []chat.Message) {
	for _, m := range messages {
		fmt.Printf("%s: %s\n", m.Role, m.Content)
	}
}
