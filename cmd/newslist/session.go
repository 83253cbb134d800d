package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ywebstudio/newslist/internal/auth"
	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/internal/interest"
	"github.com/ywebstudio/newslist/internal/push"
	"github.com/ywebstudio/newslist/pkg/models"
)

// signIn runs the pre-launch account flow: an existing account logs in
// with its password, -register walks through the registration form
// first. readPassword shares the input reader so piped input works.
func signIn(ctx context.Context, svc *auth.Service, in io.Reader, out io.Writer, readPassword func(*bufio.Reader) (string, error), email string, register bool) (*models.User, error) {
	reader := bufio.NewReader(in)

	if email == "" {
		var err error
		email, err = promptLine(reader, out, "Email: ")
		if err != nil {
			return nil, err
		}
	}

	if register {
		firstName, err := promptLine(reader, out, "First name: ")
		if err != nil {
			return nil, err
		}
		lastName, err := promptLine(reader, out, "Last name: ")
		if err != nil {
			return nil, err
		}
		city, err := promptLine(reader, out, "City: ")
		if err != nil {
			return nil, err
		}

		fmt.Fprint(out, "Password: ")
		password, err := readPassword(reader)
		fmt.Fprintln(out)
		if err != nil {
			return nil, err
		}

		return svc.Register(ctx, auth.Registration{
			FirstName: firstName,
			LastName:  lastName,
			City:      city,
			Email:     email,
			Password:  password,
		})
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(reader)
	fmt.Fprintln(out)
	if err != nil {
		return nil, err
	}

	return svc.Login(ctx, email, password)
}

func promptLine(r *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// terminalPassword reads without echo on a real terminal and falls back
// to a plain line read for piped input.
func terminalPassword(r *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// registerDevice stores the device push token on the signed-in profile.
// A missing token or gateway trouble never blocks the session.
func registerDevice(ctx context.Context, client *push.Client, store docstore.Store, logger *slog.Logger, userID string) {
	token := os.Getenv("NEWSLIST_PUSH_TOKEN")
	if token == "" {
		return
	}
	if err := client.RegisterToken(ctx, store, userID, token); err != nil {
		logger.Warn("push token registration failed", "user", userID, "error", err)
		return
	}
	logger.Info("push token registered", "user", userID)
}

// interestStorage picks where the profile lives: the signed-in user's
// remote document, or the local database for anonymous sessions.
func interestStorage(store docstore.Store, user *models.User, local *interest.LocalStore) interest.Storage {
	if user != nil {
		return interest.NewRemoteStore(store, user.ID)
	}
	return local
}
