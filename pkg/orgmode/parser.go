package orgmode

import (
	"bufio"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/harrisonrobin/todo/pkg/model"
)

var (
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s+(?:\[#([A-Za-z])\]\s*)?(.*?)(?:\s+:[\w@:]+:)?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})[^>]*>`)
	idRegex       = regexp.MustCompile(`^:ID:\s+(\S+)`)
	starsRegex    = regexp.MustCompile(`^\*+\s`)
)

var orgPriorities = map[string]model.Priority{
	"A": model.High,
	"B": model.Medium,
	"C": model.Low,
}

// ParseFiles parses several Org-mode files into tasks.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	for _, filePath := range filePaths {
		tasks, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		allTasks = append(allTasks, tasks...)
	}
	return allTasks, nil
}

func parseFile(filePath string) ([]model.Task, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads TODO and DONE headings. A heading's task collects the
// DEADLINE and :ID: lines that follow it until the next heading.
func Parse(r io.Reader) ([]model.Task, error) {
	scanner := bufio.NewScanner(r)
	var tasks []model.Task
	var current *model.Task

	flush := func() {
		if current != nil && current.Text != "" {
			tasks = append(tasks, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		// Headings start in column zero; indented or inline stars are body text.
		if starsRegex.MatchString(raw) {
			flush()
			m := headingRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			current = &model.Task{
				Text:      strings.TrimSpace(m[3]),
				Completed: m[1] == "DONE",
				Priority:  model.Medium,
			}
			if p, ok := orgPriorities[strings.ToUpper(m[2])]; ok {
				current.Priority = p
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			d, err := model.ParseDate(m[1])
			if err != nil {
				log.Printf("Warning: ignoring deadline of %q: %v", current.Text, err)
			} else {
				current.DueDate = &d
			}
		} else if m := idRegex.FindStringSubmatch(line); m != nil {
			current.ID = model.ID(m[1])
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
