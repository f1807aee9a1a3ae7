package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"sicksense-cli/model"
)

var roleByLabel = map[string]model.Role{
	"Student":              model.RoleStudent,
	"Admin (school staff)": model.RoleAdmin,
}

func newLoginCmd(rt *runtime) *cobra.Command {
	var email, role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to SickSense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = promptEmail(); err != nil {
					return err
				}
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			r, err := resolveRole(role)
			if err != nil {
				return err
			}

			resp, err := rt.client.Login(cmd.Context(), model.LoginRequest{Email: email, Password: password, Role: r})
			if err != nil {
				return err
			}
			s, err := rt.sessions.Begin(resp)
			if err != nil {
				return err
			}
			rt.logger.Info("signed in", "user", s.User.ID, "role", s.User.Role)
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", displayName(s.User), s.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&role, "role", "", "student or admin")
	return cmd
}

func newSignupCmd(rt *runtime) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a SickSense account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := (&promptui.Prompt{
				Label:    "Full Name",
				Validate: required("full name"),
			}).Run()
			if err != nil {
				return err
			}
			email, err := promptEmail()
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm Password")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			r, err := resolveRole(role)
			if err != nil {
				return err
			}

			resp, err := rt.client.Signup(cmd.Context(), model.SignupRequest{
				FullName: strings.TrimSpace(name),
				Email:    email,
				Password: password,
				Role:     r,
			})
			if err != nil {
				return err
			}
			s, err := rt.sessions.Begin(resp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", displayName(s.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "student or admin")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.sessions.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func promptEmail() (string, error) {
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if _, err := mail.ParseAddress(strings.TrimSpace(input)); err != nil {
				return errors.New("invalid email")
			}
			return nil
		},
	}
	email, err := prompt.Run()
	return strings.TrimSpace(email), err
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: required("password"),
	}
	return prompt.Run()
}

// resolveRole parses the --role flag, asking interactively when it is unset.
func resolveRole(flag string) (model.Role, error) {
	if flag != "" {
		r := model.Role(strings.ToLower(strings.TrimSpace(flag)))
		if !r.Valid() {
			return "", fmt.Errorf("invalid role %q", flag)
		}
		return r, nil
	}

	labels := maps.Keys(roleByLabel)
	slices.Sort(labels)
	selectRole := promptui.Select{
		Label: "Role",
		Items: labels,
	}
	_, label, err := selectRole.Run()
	if err != nil {
		return "", err
	}
	r, ok := roleByLabel[label]
	if !ok {
		return "", errors.New("invalid role")
	}
	return r, nil
}

func required(field string) promptui.ValidateFunc {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func displayName(u model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
