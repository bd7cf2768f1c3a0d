package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/groove/internal/auth"
	"github.com/tessro/groove/internal/browser"
	gerrors "github.com/tessro/groove/internal/errors"
)

var (
	loginEmail    string
	loginPassword string

	registerUsername string
	registerEmail    string
	registerPassword string
	registerFirst    string
	registerLast     string
	registerArtist   bool

	resetOTP      string
	resetPassword string

	googlePort int
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage your groove account",
	Long:  `Commands for signing in, signing out, and recovering your groove account.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE:  runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE:  runAuthStatus,
}

var authForgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset code",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthForgot,
}

var authResetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Set a new password using a reset code",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthReset,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in with Google in the browser",
	Long: `Opens the browser on the auth service's Google sign-in page and waits
for it to redirect back to a local callback with a session token.`,
	RunE: runAuthGoogle,
}

func init() {
	authLoginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	authLoginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")

	authRegisterCmd.Flags().StringVar(&registerUsername, "username", "", "username")
	authRegisterCmd.Flags().StringVar(&registerEmail, "email", "", "email")
	authRegisterCmd.Flags().StringVar(&registerPassword, "password", "", "password")
	authRegisterCmd.Flags().StringVar(&registerFirst, "first-name", "", "first name")
	authRegisterCmd.Flags().StringVar(&registerLast, "last-name", "", "last name")
	authRegisterCmd.Flags().BoolVar(&registerArtist, "artist", false, "register as an artist")

	authResetCmd.Flags().StringVar(&resetOTP, "otp", "", "reset code from the email")
	authResetCmd.Flags().StringVar(&resetPassword, "password", "", "new password")

	authGoogleCmd.Flags().IntVar(&googlePort, "port", 8888, "local callback port")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd,
		authForgotCmd, authResetCmd, authGoogleCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if loginEmail == "" || loginPassword == "" {
		if !isInteractive() {
			return fmt.Errorf("--email and --password are required")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&loginEmail),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.auth.Login(cmd.Context(), loginEmail, loginPassword)
	if !res.Ok() {
		return res.Err()
	}
	return printSignedIn(res.Value())
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	if registerUsername == "" || registerEmail == "" || registerPassword == "" {
		if !isInteractive() {
			return fmt.Errorf("--username, --email and --password are required")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username").Value(&registerUsername),
			huh.NewInput().Title("Email").Value(&registerEmail),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&registerPassword),
			huh.NewInput().Title("First name").Value(&registerFirst),
			huh.NewInput().Title("Last name").Value(&registerLast),
			huh.NewConfirm().Title("Register as an artist?").Value(&registerArtist),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("registration cancelled: %w", err)
		}
	}

	in := auth.RegisterInput{
		Username: registerUsername,
		Email:    registerEmail,
		Password: registerPassword,
		FullName: auth.FullName{FirstName: registerFirst, LastName: registerLast},
	}
	if registerArtist {
		in.Role = auth.RoleArtist
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.auth.Register(cmd.Context(), in)
	if !res.Ok() {
		return res.Err()
	}
	return printSignedIn(res.Value())
}

func printSignedIn(u *auth.User) error {
	if JSONOutput() {
		return printJSON(map[string]any{"status": "authenticated", "user": u})
	}
	fmt.Printf("Signed in as %s (%s)\n", u.FullDisplayName(), u.Email)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	if !svc.store.Exists() {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not signed in.")
		return nil
	}

	res := svc.auth.Logout(cmd.Context())
	if !res.Ok() {
		logger.Warn("server logout failed, local session cleared", "err", res.Err())
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	user, err := svc.auth.Current()
	if err != nil {
		return err
	}
	if user == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"authenticated": false})
		}
		fmt.Println("Not signed in.")
		fmt.Println("Run 'groove auth login' to sign in.")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	res := svc.auth.Me(ctx)
	verified := res.Ok()
	if verified {
		user = res.Value()
	}

	claims, _ := auth.ParseClaims(svc.auth.Token())

	if JSONOutput() {
		out := map[string]any{
			"authenticated": verified,
			"user":          user,
		}
		if claims != nil {
			out["expires_at"] = claims.ExpiresAt
			out["expired"] = claims.Expired()
		}
		if !verified {
			out["error"] = res.Err().Error()
		}
		return printJSON(out)
	}

	if !verified {
		fmt.Printf("Stored session for %s is no longer valid: %v\n", user.DisplayName(), res.Err())
		fmt.Println("Run 'groove auth login' to sign in again.")
		return nil
	}

	fmt.Printf("Signed in as: %s (%s)\n", user.FullDisplayName(), user.Email)
	if user.Role != "" {
		fmt.Printf("Role: %s\n", user.Role)
	}
	if claims != nil && !claims.ExpiresAt.IsZero() {
		fmt.Printf("Token expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), FormatAgo(claims.ExpiresAt))
	}
	return nil
}

func runAuthForgot(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.auth.ForgotPassword(cmd.Context(), args[0])
	if !res.Ok() {
		return res.Err()
	}
	if JSONOutput() {
		return printJSON(map[string]string{"status": "sent", "message": res.Value()})
	}
	fmt.Println(res.Value())
	fmt.Printf("Then run 'groove auth reset %s --otp <code>'.\n", args[0])
	return nil
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	if resetOTP == "" || resetPassword == "" {
		if !isInteractive() {
			return fmt.Errorf("--otp and --password are required")
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Reset code").Value(&resetOTP),
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(&resetPassword),
		))
		if err := form.Run(); err != nil {
			return fmt.Errorf("reset cancelled: %w", err)
		}
	}

	svc, err := newServices()
	if err != nil {
		return err
	}

	res := svc.auth.ResetPassword(cmd.Context(), args[0], resetOTP, resetPassword)
	if !res.Ok() {
		return res.Err()
	}
	if JSONOutput() {
		return printJSON(map[string]string{"status": "reset", "message": res.Value()})
	}
	fmt.Println(res.Value())
	return nil
}

func runAuthGoogle(cmd *cobra.Command, args []string) error {
	svc, err := newServices()
	if err != nil {
		return err
	}

	callbackServer, err := auth.NewCallbackServer(googlePort)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	callbackServer.Start()
	defer func() { _ = callbackServer.Shutdown(context.Background()) }()

	loginURL := svc.auth.GoogleLoginURL(callbackServer.RedirectURL())

	fmt.Println("Opening browser for Google sign-in...")
	if err := browser.Open(loginURL); err != nil {
		fmt.Printf("Could not open browser automatically.\n")
		fmt.Printf("Please open this URL in your browser:\n\n%s\n\n", loginURL)
	}

	fmt.Println("Waiting for sign-in...")
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := callbackServer.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%w: sign-in timed out", gerrors.ErrTimeout)
	}
	if result.Error != "" {
		return fmt.Errorf("sign-in failed: %s", result.Error)
	}

	res := svc.auth.CompleteGoogleLogin(ctx, result.Token)
	if !res.Ok() {
		return res.Err()
	}
	return printSignedIn(res.Value())
}
