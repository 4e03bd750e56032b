// Command pulseboard is a thin client for the pulseboard daemon. It connects
// to the bridge socket and issues board operations; all state lives behind
// the daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/faisal004/pulseboard/internal/board"
	"github.com/faisal004/pulseboard/internal/events"
	"github.com/faisal004/pulseboard/internal/models"
)

const usage = `usage: pulseboard <command> [args]

commands:
  list                          show the board
  add <title>                   create a task in todo
  status <task-id> <status>     move a task (todo | in-progress | done)
  rm <task-id>                  delete a task (subtasks go with it)
  sub <task-id> <title>         add a subtask
  check <subtask-id>            mark a subtask completed
  uncheck <subtask-id>          mark a subtask not completed
  rmsub <subtask-id>            delete a subtask
`

func socketPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pulseboard", "bridge.sock"), nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path, err := socketPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	client := events.NewClient(path)
	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot reach daemon: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := run(ctx, client, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *events.Client, command string, args []string) error {
	switch command {
	case "list":
		return list(ctx, client)

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("add needs a title")
		}
		task, err := client.CreateTask(ctx, events.CreateTaskParams{
			Title:  args[0],
			Status: models.StatusTodo,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", task.ID)
		return nil

	case "status":
		if len(args) < 2 {
			return fmt.Errorf("status needs a task id and a status")
		}
		status, err := models.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return client.UpdateTaskStatus(ctx, args[0], status)

	case "rm":
		if len(args) < 1 {
			return fmt.Errorf("rm needs a task id")
		}
		return client.DeleteTask(ctx, args[0])

	case "sub":
		if len(args) < 2 {
			return fmt.Errorf("sub needs a task id and a title")
		}
		subtask, err := client.CreateSubtask(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", subtask.ID)
		return nil

	case "check":
		if len(args) < 1 {
			return fmt.Errorf("check needs a subtask id")
		}
		return client.ToggleSubtask(ctx, args[0], true)

	case "uncheck":
		if len(args) < 1 {
			return fmt.Errorf("uncheck needs a subtask id")
		}
		return client.ToggleSubtask(ctx, args[0], false)

	case "rmsub":
		if len(args) < 1 {
			return fmt.Errorf("rmsub needs a subtask id")
		}
		return client.DeleteSubtask(ctx, args[0])
	}

	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", command)
}

func list(ctx context.Context, client *events.Client) error {
	b := board.New(client)
	if err := b.Refresh(ctx); err != nil {
		return err
	}

	columns := b.Columns()
	for _, status := range []models.Status{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		fmt.Printf("== %s ==\n", status)
		for _, task := range columns[status] {
			due := ""
			if task.DueDate != nil {
				due = " due " + time.UnixMilli(*task.DueDate).Format("2006-01-02")
			}
			fmt.Printf("  %s  %s%s\n", task.ID, task.Title, due)
			for _, subtask := range task.Subtasks {
				mark := " "
				if subtask.Completed {
					mark = "x"
				}
				fmt.Printf("    [%s] %s  %s\n", mark, subtask.ID, subtask.Title)
			}
		}
	}
	return nil
}
