package texture

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/learngl/internal/engine/gpu"
)

// Prefetch reads and decodes paths in parallel so that later Load calls
// only upload. Decode failures are kept and reported by Load under the
// cache's failure policy; Prefetch itself fails only when ctx is done.
func (c *Cache) Prefetch(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, ok := c.ids[path]; ok {
			continue
		}

		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err, _ := c.group.Do(path, func() (interface{}, error) {
				data, err := c.opts.ReadFile(path)
				if err != nil {
					return nil, err
				}
				return Decode(data, path, c.opts.FlipY)
			})
			d := decoded{err: err}
			if err == nil {
				d.img = v.(*gpu.Image)
			}
			c.mu.Lock()
			c.decoded[path] = d
			c.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("prefetch textures: %w", err)
	}
	c.log.Debug("textures prefetched", zap.Int("count", len(seen)))
	return nil
}

// Prefetched returns how many decoded images are waiting for Load.
func (c *Cache) Prefetched() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.decoded)
}

// DropPrefetched forgets prefetched images of paths that were never
// loaded, such as after an aborted model load.
func (c *Cache) DropPrefetched(paths []string) {
	c.mu.Lock()
	for _, path := range paths {
		delete(c.decoded, path)
	}
	c.mu.Unlock()
}

// LoadCubemap decodes six face images (+X, -X, +Y, -Y, +Z, -Z) and uploads
// them as one cube map. Faces are never flipped. The cube map is released by
// Close.
func (c *Cache) LoadCubemap(ctx context.Context, faces [6]string) (uint32, error) {
	var imgs [6]*gpu.Image

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, path := range faces {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := c.opts.ReadFile(path)
			if err != nil {
				return fmt.Errorf("cubemap face %s: %w", path, err)
			}
			img, err := Decode(data, path, false)
			if err != nil {
				return err
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	id, err := c.dev.CreateCubemap(imgs)
	if err != nil {
		return 0, fmt.Errorf("upload cubemap: %w", err)
	}
	c.cubes = append(c.cubes, id)
	return id, nil
}
