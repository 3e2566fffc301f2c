// Package googletasks pushes local tasks to a Google Tasks list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gtasks "google.golang.org/api/tasks/v1"

	"taskflow/internal/config"
	"taskflow/internal/logging"
	"taskflow/internal/task"
)

const (
	// PageSize is the number of items requested per API page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Remote status values.
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"

	// inProgressPrefix marks in_progress tasks, which have no remote status.
	inProgressPrefix = "[in progress] "
)

// ErrAmbiguousList is returned when several remote lists share the target title.
var ErrAmbiguousList = errors.New("ambiguous list name")

// PushResult counts what a push changed remotely.
type PushResult struct {
	Created int
	Updated int
}

// Client pushes tasks through the Google Tasks API.
type Client struct {
	svc    *gtasks.Service
	logger *log.Logger
}

// New creates a client from the stored OAuth client and token.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	return NewWithHTTPClient(ctx, httpClient, cfg.Log())
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (such as option.WithEndpoint) are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gtasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Push upserts every local task into the remote list titled listName,
// matching remote tasks by case-insensitive title. The list is created if
// missing. Remote tasks without a local counterpart are left untouched.
func (c *Client) Push(ctx context.Context, listName string, local []task.Task) (PushResult, error) {
	var res PushResult

	list, err := c.ensureList(ctx, listName)
	if err != nil {
		return res, err
	}

	remote, err := c.listTasks(ctx, list.Id)
	if err != nil {
		return res, err
	}

	for _, t := range local {
		body := toRemote(t)
		if existing := findByTitle(remote, t.Title); existing != nil {
			if err := c.patchTask(ctx, list.Id, existing.Id, body); err != nil {
				return res, fmt.Errorf("update %q: %w", t.Title, err)
			}
			c.logger.Debug("updated remote task", "title", t.Title, "list", list.Title)
			res.Updated++
			continue
		}
		if err := c.insertTask(ctx, list.Id, body); err != nil {
			return res, fmt.Errorf("create %q: %w", t.Title, err)
		}
		c.logger.Debug("created remote task", "title", t.Title, "list", list.Title)
		res.Created++
	}
	return res, nil
}

// ensureList finds the list by name (case-insensitive, trimmed) or creates it.
func (c *Client) ensureList(ctx context.Context, name string) (*gtasks.TaskList, error) {
	name = strings.TrimSpace(name)

	var matches []*gtasks.TaskList
	listCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(listCtx, func(resp *gtasks.TaskLists) error {
		for _, l := range resp.Items {
			if strings.EqualFold(strings.TrimSpace(l.Title), name) {
				matches = append(matches, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	switch len(matches) {
	case 0:
		insertCtx, cancel := context.WithTimeout(ctx, APITimeout)
		defer cancel()
		created, err := c.svc.Tasklists.Insert(&gtasks.TaskList{Title: name}).Context(insertCtx).Do()
		if err != nil {
			return nil, wrapError(err)
		}
		c.logger.Info("created remote list", "list", name)
		return created, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousList, name)
	}
}

// listTasks returns all tasks of a list, completed and hidden ones included.
func (c *Client) listTasks(ctx context.Context, listID string) ([]*gtasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []*gtasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		Pages(ctx, func(resp *gtasks.Tasks) error {
			result = append(result, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

func (c *Client) insertTask(ctx context.Context, listID string, body *gtasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, body).Context(ctx).Do()
	return wrapError(err)
}

func (c *Client) patchTask(ctx context.Context, listID, taskID string, body *gtasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, body).Context(ctx).Do()
	return wrapError(err)
}

func findByTitle(remote []*gtasks.Task, title string) *gtasks.Task {
	for _, r := range remote {
		if task.SameTitle(strings.TrimSpace(r.Title), title) {
			return r
		}
	}
	return nil
}

// toRemote maps a local task onto the Google Tasks representation.
func toRemote(t task.Task) *gtasks.Task {
	body := &gtasks.Task{
		Title:  t.Title,
		Notes:  t.Description,
		Status: statusNeedsAction,
		// Patch omits empty fields; an empty description must still clear remote notes.
		ForceSendFields: []string{"Notes"},
	}
	if t.Status == task.StatusDone {
		body.Status = statusCompleted
	} else {
		if t.Status == task.StatusInProgress {
			body.Notes = inProgressPrefix + t.Description
		}
		// Reopening a completed remote task needs the completion time cleared.
		body.NullFields = append(body.NullFields, "Completed")
	}
	if due, err := time.Parse("2006-01-02", strings.TrimSpace(t.DueDate)); err == nil {
		body.Due = due.UTC().Format(time.RFC3339)
	} else {
		body.NullFields = append(body.NullFields, "Due")
	}
	return body
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("%w (run: taskflow login)", ErrUnauthorized)
	}
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}
	return err
}
