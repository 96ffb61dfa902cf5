package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ore/internal/storage"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an active user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name> [color]",
	Short: "Create a regular project",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProjectAdd,
}

var projectGrantCmd = &cobra.Command{
	Use:   "grant <user-id> <project-id>",
	Short: "Authorize a user for a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectGrant,
}

var projectSuppressCmd = &cobra.Command{
	Use:   "suppress <project-id>",
	Short: "Hide a project from new entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectSuppress,
}

func init() {
	userCmd.AddCommand(userAddCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectGrantCmd)
	projectCmd.AddCommand(projectSuppressCmd)
}

// openSQLite opens the store and requires the SQLite backend; admin
// mutations are not available on the in-memory backend.
func openSQLite() (*storage.SQLiteRepository, func() error, error) {
	store, _, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	repo, ok := store.(*storage.SQLiteRepository)
	if !ok {
		closeStore()
		return nil, nil, fmt.Errorf("admin commands need the sqlite backend, got %T", store)
	}
	return repo, closeStore, nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	repo, closeStore, err := openSQLite()
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := repo.CreateUser(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("user %d: %s\n", user.ID, user.Name)
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	color := ""
	if len(args) == 2 {
		color = args[1]
	}

	repo, closeStore, err := openSQLite()
	if err != nil {
		return err
	}
	defer closeStore()

	project, err := repo.CreateProject(cmd.Context(), args[0], color)
	if err != nil {
		return err
	}
	fmt.Printf("project %d: %s\n", project.ID, project.Name)
	return nil
}

func runProjectGrant(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	projectID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[1])
	}

	repo, closeStore, err := openSQLite()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := repo.GrantProject(cmd.Context(), userID, projectID); err != nil {
		return err
	}
	fmt.Printf("user %d granted project %d\n", userID, projectID)
	return nil
}

func runProjectSuppress(cmd *cobra.Command, args []string) error {
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}

	repo, closeStore, err := openSQLite()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := repo.SuppressProject(cmd.Context(), projectID); err != nil {
		return err
	}
	fmt.Printf("project %d suppressed\n", projectID)
	return nil
}
