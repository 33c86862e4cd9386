package taskwarrior

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

type Client struct {
	// Binary is the taskwarrior executable, "task" by default.
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// GetTasks runs `task <filter> export` with hooks disabled.
func (c *Client) GetTasks(ctx context.Context, filter []string) ([]Task, error) {
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	cmd := exec.CommandContext(ctx, c.Binary, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return c.ParseTasks(bytes.NewReader(output))
}

// ParseTasks reads either a JSON array, as written by `task export`, or a
// stream of JSON objects, one per line.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(br)
	if first == '[' {
		var tasks []Task
		if err := decoder.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		return tasks, nil
	}

	var tasks []Task
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
