package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/client/client"
	"github.com/dmitrijs2005/propkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and starts a new session. An empty
// username reuses the one from the previous login. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	last := a.authService.LastUsername(ctx)
	prompt := "Enter username"
	if last != "" {
		prompt = fmt.Sprintf("Enter username [%s]", last)
	}

	userName, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = last
	}
	if userName == "" {
		return errors.New("username is required")
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			return errors.New("login failed: invalid username or password")
		case errors.Is(err, client.ErrUnavailable):
			a.setMode(ctx, ModeOffline)
			return errors.New("login failed: server unavailable")
		}
		return err
	}

	a.mu.Lock()
	a.userName = userName
	a.notice = ""
	a.mu.Unlock()
	a.setMode(ctx, ModeOnline)

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session locally and, when reachable, on the server.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.userName = ""
	a.mu.Unlock()

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints what the local session knows, without a server call.
func (a *App) Status(ctx context.Context) error {
	st := a.authService.Status(ctx)
	if !st.LoggedIn {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	who := st.Username
	if who == "" {
		who = "unknown user"
	}
	if st.UserID != "" {
		who = fmt.Sprintf("%s (id %s)", who, st.UserID)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", who)

	switch {
	case st.ExpiresAt.IsZero():
	case st.Expired:
		fmt.Fprintf(a.out, "Access token expired at %s, it is refreshed on the next call\n", st.ExpiresAt.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(a.out, "Access token valid until %s\n", st.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// Ping checks server liveness and updates the mode accordingly.
func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return err
	}
	a.setMode(ctx, ModeOnline)
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
