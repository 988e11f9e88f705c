package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"logframe-studio/internal/domain"
	"logframe-studio/pkg/client"
)

type cliOptions struct {
	server      string
	sessionFile string
}

// tokenFile sits next to the session file; the store itself persists only
// the user record and onboarding flag, the CLI keeps the token so a
// login survives across invocations.
func (o *cliOptions) tokenFile() string {
	return filepath.Join(filepath.Dir(o.sessionFile), "token")
}

func (o *cliOptions) store() *client.Store {
	s := client.New(client.Options{
		BaseURL:     o.server,
		SessionFile: o.sessionFile,
	})
	if b, err := os.ReadFile(o.tokenFile()); err == nil {
		s.ResumeSession(strings.TrimSpace(string(b)))
	}
	return s
}

func (o *cliOptions) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(o.tokenFile()), 0o755); err != nil {
		return err
	}
	return os.WriteFile(o.tokenFile(), []byte(token), 0o600)
}

func newLoginCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and save the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := o.store()
			defer s.Close()
			if err := s.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			if err := o.saveToken(s.Token()); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", s.User().Email)
			return nil
		},
	}
}

func newRegisterCmd(o *cliOptions) *cobra.Command {
	var org, role string
	cmd := &cobra.Command{
		Use:   "register <name> <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := o.store()
			defer s.Close()
			err := s.Register(cmd.Context(), client.Registration{
				Name: args[0], Email: args[1], Password: args[2],
				Organization: org, Role: role,
			})
			if err != nil {
				return err
			}
			if err := o.saveToken(s.Token()); err != nil {
				return err
			}
			fmt.Printf("registered %s\n", s.User().Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "organization")
	cmd.Flags().StringVar(&role, "role", "", "role")
	return cmd
}

func newLogoutCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := o.store()
			s.Logout()
			_ = os.Remove(o.tokenFile())
			fmt.Println("signed out")
			return nil
		},
	}
}

func newProjectsCmd(o *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your projects",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				s := o.store()
				defer s.Close()
				s.FetchProjects(c.Context())
				for _, p := range s.Projects() {
					fmt.Printf("%s  %-28s %-12s %3d%%  step %d/%d\n",
						p.ID, p.Name, p.Status, p.Progress, p.CurrentStep, domain.TotalSteps)
				}
				return nil
			},
		},
		newProjectsCreateCmd(o),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				s := o.store()
				defer s.Close()
				s.FetchProjects(c.Context())
				if st := s.DeleteProject(c.Context(), args[0]); st == client.Rejected {
					return fmt.Errorf("project %s not found", args[0])
				}
				fmt.Println("deleted", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Print a project as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				s := o.store()
				defer s.Close()
				s.FetchProjects(c.Context())
				p := s.Project(args[0])
				if p == nil {
					return fmt.Errorf("project %s not found", args[0])
				}
				b, _ := json.MarshalIndent(p, "", "  ")
				fmt.Println(string(b))
				return nil
			},
		},
	)
	return cmd
}

func newProjectsCreateCmd(o *cliOptions) *cobra.Command {
	var tpl string
	cmd := &cobra.Command{
		Use:   "create <name> <description>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			s := o.store()
			defer s.Close()
			p := s.CreateProject(c.Context(), args[0], args[1], tpl)
			if p == nil {
				return fmt.Errorf("create failed")
			}
			fmt.Println("created", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&tpl, "template", "", "template id to seed from")
	return cmd
}

func newStepCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "step <project-id> <step>",
		Short: "Mark a wizard step complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			step, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("step must be a number 1..%d", domain.TotalSteps)
			}
			s := o.store()
			defer s.Close()
			s.FetchProjects(c.Context())
			switch s.UpdateProgress(c.Context(), args[0], step) {
			case client.Rejected:
				return fmt.Errorf("step %d rejected for project %s", step, args[0])
			case client.LocalOnly:
				fmt.Println("recorded locally; server write failed")
			default:
				p := s.Project(args[0])
				fmt.Printf("progress %d%%, current step %d\n", p.Progress, p.CurrentStep)
			}
			return nil
		},
	}
}

func newImportCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <target-id> <source-id>",
		Short: "Copy another project's design document into yours",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			s := o.store()
			api := client.NewAPI(o.server, nil)
			p, err := api.ImportProjectData(c.Context(), s.Token(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("imported into %s: progress %d%%\n", p.ID, p.Progress)
			return nil
		},
	}
}

func newExportCmd(o *cliOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <project-id> <pdf|docx|xlsx>",
		Short: "Download a rendered design document",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			s := o.store()
			api := client.NewAPI(o.server, nil)
			data, _, err := api.ExportProject(c.Context(), s.Token(), args[0], args[1])
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + "." + args[1]
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file")
	return cmd
}

func newDiscoverCmd(o *cliOptions) *cobra.Command {
	var district, block, cluster string
	cmd := &cobra.Command{
		Use:   "discover <state>",
		Short: "Find projects by geography, across all users",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s := o.store()
			api := client.NewAPI(o.server, nil)
			ps, err := api.DiscoverProjects(c.Context(), s.Token(), domain.LocationQuery{
				State: args[0], District: district, Block: block, Cluster: cluster,
			})
			if err != nil {
				return err
			}
			for _, p := range ps {
				fmt.Printf("%s  %-28s %3d%%\n", p.ID, p.Name, p.Progress)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&district, "district", "", "district filter")
	cmd.Flags().StringVar(&block, "block", "", "block filter")
	cmd.Flags().StringVar(&cluster, "cluster", "", "cluster filter")
	return cmd
}

func newBadgesCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List earned badges",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			s := o.store()
			defer s.Close()
			s.FetchProjects(c.Context())
			for _, b := range s.Badges() {
				fmt.Println(b)
			}
			return nil
		},
	}
}
