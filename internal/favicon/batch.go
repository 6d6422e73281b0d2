package favicon

import (
	"context"
	"image"
	"sync"
)

// ProgressFunc is called after each URL is resolved.
// completed is the number of URLs resolved so far, total is the total count.
type ProgressFunc func(completed, total int)

// ResolveAll resolves urls with up to concurrency workers and returns the
// icons that were found, keyed by URL. Duplicate URLs are resolved once.
// Failed URLs are absent from the result and stay uncached.
func (r *Resolver) ResolveAll(ctx context.Context, urls []string, concurrency int, onProgress ProgressFunc) map[string]image.Image {
	unique := dedupe(urls)
	if len(unique) == 0 {
		return map[string]image.Image{}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	icons := make(map[string]image.Image, len(unique))
	jobs := make(chan string, len(unique))
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				img, err := r.Resolve(ctx, u)

				mu.Lock()
				if err == nil {
					icons[u] = img
				}
				completed++
				if onProgress != nil {
					onProgress(completed, len(unique))
				}
				mu.Unlock()
			}
		}()
	}

	for _, u := range unique {
		jobs <- u
	}
	close(jobs)

	wg.Wait()
	return icons
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
