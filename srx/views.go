package srx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/robert-malhotra/go-srx/blobstore"
	"github.com/robert-malhotra/go-srx/internal/manifest"
)

// Layout of saved analysis views.
const (
	ViewsDir     = "Views"
	ViewInfoName = "ViewInfo.json"
)

// View is one saved analysis view.
type View = manifest.View

// Views lists the saved views from Views/ViewInfo.json.
func (e *Experiment) Views(ctx context.Context) ([]View, error) {
	if err := e.check(ctx); err != nil {
		return nil, err
	}
	name := path.Join(ViewsDir, ViewInfoName)
	data, err := blobstore.ReadAll(ctx, e.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigMissing, name, err)
		}
		return nil, translateError(fmt.Errorf("reading %s: %w", name, err))
	}
	vs, err := manifest.ReadViewState(bytes.NewReader(data))
	if err != nil {
		return nil, translateError(fmt.Errorf("%s: %w", name, err))
	}
	return vs.Views, nil
}

// ViewPath returns the directory of the view called name, relative to the
// experiment root.
func (e *Experiment) ViewPath(ctx context.Context, name string) (string, error) {
	views, err := e.Views(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range views {
		if v.Name == name {
			return path.Join(ViewsDir, v.DirName), nil
		}
	}
	return "", fmt.Errorf("%w: no view named %q", ErrNotFound, name)
}
