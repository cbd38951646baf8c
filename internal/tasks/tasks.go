package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
)

// Source pages through collections. [services.SoundCloudService] implements it.
type Source interface {
	Collection(ctx context.Context, name services.EndpointName, reset bool, arg string) ([]models.Item, error)
	HasMore(name services.EndpointName, arg string) bool
}

// CollectionJob names one collection to drain; Arg fills the endpoint's parameter
// (playlist id, user id or search query).
type CollectionJob struct {
	Name services.EndpointName `json:"name"`
	Arg  string                `json:"arg,omitempty"`
}

func (j CollectionJob) String() string {
	if j.Arg == "" {
		return string(j.Name)
	}
	return fmt.Sprintf("%s:%s", j.Name, j.Arg)
}

// ParseJob parses "name" or "name:arg".
func ParseJob(s string) (CollectionJob, error) {
	name, arg, _ := strings.Cut(s, ":")
	if name == "" {
		return CollectionJob{}, fmt.Errorf("%w: empty collection name", shared.ErrInvalidArgument)
	}
	return CollectionJob{Name: services.EndpointName(name), Arg: arg}, nil
}

// Engine runs export jobs against a [Source].
type Engine struct {
	source Source
	logger *log.Logger
}

func NewEngine(source Source, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{source: source, logger: shared.WithLogger(logger, "component", "export")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
