package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

func newLoginCmd(r *runner) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			name, err := a.ask(username, "Username")
			if err != nil {
				return err
			}
			password, err := a.askSecret("Password")
			if err != nil {
				return err
			}
			defer wipe(password)

			if err := a.session.Login(cmd.Context(), name, string(password)); err != nil {
				return errors.New(a.session.Snapshot().Error)
			}
			u, _ := a.session.State().User()
			a.success("Logged in as " + u.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	return routed(cmd, router.Login)
}

func newRegisterCmd(r *runner) *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			var err error
			if req.Username, err = a.ask(req.Username, "Username"); err != nil {
				return err
			}
			if req.Email, err = a.ask(req.Email, "Email"); err != nil {
				return err
			}

			password, err := a.askSecret("Password")
			if err != nil {
				return err
			}
			defer wipe(password)
			confirm, err := a.askSecret("Confirm password")
			if err != nil {
				return err
			}
			defer wipe(confirm)
			req.Password, req.PasswordConfirm = string(password), string(confirm)

			if err := a.session.Register(cmd.Context(), req); err != nil {
				var ve *models.ValidationError
				if errors.As(err, &ve) {
					return err
				}
				return errors.New(a.session.Snapshot().Error)
			}
			a.success("Registration successful. Please log in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVar((*string)(&req.Role), "role", string(models.RoleUser), "account role (user, executor)")
	return routed(cmd, router.Register)
}

func newLogoutCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			a.success("Logged out")
			return nil
		},
	}
	return routed(cmd, router.Dashboard)
}

func newWhoamiCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			u, _ := a.session.State().User()
			a.title(u.Username)
			a.field("Email", u.Email)
			a.field("Role", string(u.Role))
			if u.Bio != "" {
				a.field("Bio", u.Bio)
			}

			c, err := a.session.Claims(cmd.Context())
			if err != nil {
				a.log.Debug(cmd.Context(), "access token not decodable", "error", err)
				return nil
			}
			switch {
			case c.ExpiresAt.IsZero():
			case c.Expired(a.now()):
				a.field("Token expired", errorStyle.Render(a.when(c.ExpiresAt)))
			default:
				a.field("Token expires", a.when(c.ExpiresAt))
			}
			return nil
		},
	}
	return routed(cmd, router.Dashboard)
}
