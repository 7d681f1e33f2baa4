package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracklite-dev/tracklite/internal/client"
)

var (
	projectTitle       string
	projectDescription string
	projectStatus      string
	projectDue         string
	projectClearDue    bool
)

// dueDateLayout is the date format accepted on the command line.
const dueDateLayout = "2006-01-02"

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
	Long: `Commands for working with your projects. Every command operates on
the signed-in user's own projects only.

Examples:
  # List your projects, newest first
  trackctl project list

  # Create a project
  trackctl project create --title "Launch" --description "Ship it" --due 2026-10-01

  # Change just the status
  trackctl project update <id> --status Completed

  # Clear a due date
  trackctl project update <id> --clear-due`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		projects, err := session.API().ListProjects()
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-30s  %-12s  %-10s  %s\n",
			"ID", "TITLE", "STATUS", "DUE", "CREATED")
		fmt.Println(strings.Repeat("-", 100))

		for _, p := range projects {
			due := "-"
			if p.DueDate != nil {
				due = p.DueDate.Format(dueDateLayout)
			}
			fmt.Printf("%-36s  %-30s  %-12s  %-10s  %s\n",
				p.ID,
				truncate(p.Title, 30),
				p.Status,
				due,
				p.CreatedAt.Format("2006-01-02 15:04"))
		}

		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		project, err := session.API().GetProject(args[0])
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}

		printProject(project)
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		params := client.CreateProjectParams{
			Title:       projectTitle,
			Description: projectDescription,
			Status:      projectStatus,
		}

		if projectDue != "" {
			due, err := time.Parse(dueDateLayout, projectDue)
			if err != nil {
				return fmt.Errorf("invalid --due date %q, expected YYYY-MM-DD", projectDue)
			}
			params.DueDate = &due
		}

		project, err := session.API().CreateProject(params)
		if err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		fmt.Printf("Created project %s\n", project.ID)
		printProject(project)
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a project",
	Long: `Update only the fields given as flags; everything else keeps its
current value. --clear-due removes the due date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		var params client.UpdateProjectParams

		if cmd.Flags().Changed("title") {
			params.Title = &projectTitle
		}
		if cmd.Flags().Changed("description") {
			params.Description = &projectDescription
		}
		if cmd.Flags().Changed("status") {
			params.Status = &projectStatus
		}
		if projectClearDue {
			params.ClearDueDate = true
		} else if projectDue != "" {
			due, err := time.Parse(dueDateLayout, projectDue)
			if err != nil {
				return fmt.Errorf("invalid --due date %q, expected YYYY-MM-DD", projectDue)
			}
			params.DueDate = &due
		}

		project, err := session.API().UpdateProject(args[0], params)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		printProject(project)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := newSession()
		if err != nil {
			return err
		}

		if err := session.API().DeleteProject(args[0]); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}

		fmt.Println("Project removed.")
		return nil
	},
}

func printProject(p *client.Project) {
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Title:       %s\n", p.Title)
	fmt.Printf("Description: %s\n", p.Description)
	fmt.Printf("Status:      %s\n", p.Status)
	if p.DueDate != nil {
		fmt.Printf("Due:         %s\n", p.DueDate.Format(dueDateLayout))
	} else {
		fmt.Printf("Due:         -\n")
	}
	fmt.Printf("Created:     %s\n", p.CreatedAt.Format(time.RFC3339))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-2]) + ".."
}

func init() {
	for _, c := range []*cobra.Command{projectCreateCmd, projectUpdateCmd} {
		c.Flags().StringVar(&projectTitle, "title", "", "project title")
		c.Flags().StringVar(&projectDescription, "description", "", "project description")
		c.Flags().StringVar(&projectStatus, "status", "", `status ("Not Started", "In Progress", "Completed", "On Hold")`)
		c.Flags().StringVar(&projectDue, "due", "", "due date (YYYY-MM-DD)")
	}
	projectCreateCmd.MarkFlagRequired("title")
	projectCreateCmd.MarkFlagRequired("description")

	projectUpdateCmd.Flags().BoolVar(&projectClearDue, "clear-due", false, "remove the due date")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)

	rootCmd.AddCommand(projectCmd)
}
