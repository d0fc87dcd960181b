package vscopilot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers bounds concurrent file parses within one storage root.
	DefaultWorkers = 8
	// DefaultFileTimeout caps how long a single file may take to read and
	// parse before being skipped.
	DefaultFileTimeout = 5 * time.Second
)

// Engine walks storage roots for Copilot session files and assembles the
// merged corpus. The zero value is not usable; construct with NewEngine.
type Engine struct {
	roots       []string
	workers     int
	fileTimeout time.Duration
	agent       string
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the per-root parse concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFileTimeout sets the per-file read/parse timeout.
func WithFileTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fileTimeout = d
		}
	}
}

// WithAgent overrides the agent label attached to the corpus.
func WithAgent(agent string) Option {
	return func(e *Engine) {
		if agent != "" {
			e.agent = agent
		}
	}
}

// NewEngine builds an engine over the given candidate storage roots.
// Roots that do not exist on disk are skipped at discovery time; on most
// machines only one of the candidate channels is installed.
func NewEngine(roots []string, opts ...Option) *Engine {
	e := &Engine{
		roots:       roots,
		workers:     DefaultWorkers,
		fileTimeout: DefaultFileTimeout,
		agent:       AgentName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rootResult is the partial corpus gathered from one storage root. Each
// root owns disjoint files, so roots are processed concurrently and
// their results merged serially afterwards.
type rootResult struct {
	root     string
	sessions []ChatSession
	meta     map[string]interface{}
}

// Discover walks every existing storage root and returns the merged
// corpus. A single corrupted file never aborts the pass: bad files are
// logged and skipped, and cancellation returns whatever completed.
func (e *Engine) Discover(ctx context.Context) (*WorkspaceData, error) {
	corpus := &WorkspaceData{
		Agent:        e.agent,
		Version:      Version,
		ChatSessions: []ChatSession{},
		Metadata:     map[string]interface{}{},
	}

	results := make([]*rootResult, len(e.roots))
	g, gctx := errgroup.WithContext(ctx)

	for i, root := range e.roots {
		if _, err := os.Stat(root); err != nil {
			log.Debugf("storage root %s not present, skipping", root)
			continue
		}
		g.Go(func() error {
			results[i] = e.discoverRoot(gctx, root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return corpus, err
	}

	for _, result := range results {
		if result != nil {
			mergeRoot(corpus, result)
		}
	}

	if len(corpus.ChatSessions) == 0 {
		log.Warn("no chat sessions found in any storage root")
	}
	return corpus, nil
}

// discoverRoot gathers every session under one storage root: workspace
// mapping first, then both file formats parsed by a bounded worker pool.
func (e *Engine) discoverRoot(ctx context.Context, root string) *rootResult {
	mapping := BuildWorkspaceMapping(root)

	liveFiles := globSessions(root, "workspaceStorage", "*", "chatSessions", "*.json")
	legacyFiles := globSessions(root, "workspaceStorage", "*", "chatEditingSessions", "*", "state.json")

	type job struct {
		path  string
		parse func(string) (*ChatSession, error)
	}
	jobs := make([]job, 0, len(liveFiles)+len(legacyFiles))
	for _, f := range liveFiles {
		jobs = append(jobs, job{f, ParseLiveSession})
	}
	for _, f := range legacyFiles {
		jobs = append(jobs, job{f, ParseLegacyEditingSession})
	}

	var (
		mu       sync.Mutex
		sessions []ChatSession
		skipped  int
	)
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, j := range jobs {
		if ctx.Err() != nil {
			// Stop issuing work; in-flight parses finish or time out.
			log.Debugf("discovery canceled, %d of %d files unprocessed in %s", len(jobs)-i, len(jobs), root)
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			sess, err := e.parseWithTimeout(ctx, j.path, j.parse)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Errorf("skipping %s: %v", j.path, err)
				skipped++
				return
			}
			sess.Agent = e.agent
			if ref, ok := mapping[workspaceDirFromPath(j.path)]; ok {
				sess.Workspace = ref
			}
			sessions = append(sessions, *sess)
		}()
	}
	wg.Wait()

	// Parses complete in pool order; sort by source file so a root's
	// contribution is deterministic across runs.
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].SourceFile() < sessions[j].SourceFile()
	})

	log.Infof("root %s: %d sessions parsed, %d files skipped", root, len(sessions), skipped)

	return &rootResult{
		root:     root,
		sessions: sessions,
		meta: map[string]interface{}{
			"storage_root":    root,
			"workspace_count": len(mapping),
			"live_files":      len(liveFiles),
			"legacy_files":    len(legacyFiles),
			"skipped_files":   skipped,
		},
	}
}

// parseWithTimeout runs one parser under the per-file deadline. A file
// that times out is treated exactly like a parse failure.
func (e *Engine) parseWithTimeout(ctx context.Context, path string, parse func(string) (*ChatSession, error)) (*ChatSession, error) {
	type outcome struct {
		session *ChatSession
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		s, err := parse(path)
		done <- outcome{s, err}
	}()

	timer := time.NewTimer(e.fileTimeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.session, out.err
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %s", e.fileTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func globSessions(root string, segments ...string) []string {
	matches, err := filepath.Glob(filepath.Join(append([]string{root}, segments...)...))
	if err != nil {
		// Only malformed patterns error here, and ours are fixed.
		log.Errorf("glob failed under %s: %v", root, err)
		return nil
	}
	return matches
}

// mergeRoot folds one root's partial corpus into the accumulator.
// Sessions append; metadata merges key-by-key, concatenating arrays and
// renaming colliding scalars with the root's basename so nothing is
// overwritten. WorkspacePath tracks the latest root that contributed
// sessions.
func mergeRoot(corpus *WorkspaceData, result *rootResult) {
	corpus.ChatSessions = append(corpus.ChatSessions, result.sessions...)

	for key, value := range result.meta {
		existing, present := corpus.Metadata[key]
		if !present {
			corpus.Metadata[key] = value
			continue
		}
		if merged, ok := concatArrays(existing, value); ok {
			corpus.Metadata[key] = merged
			continue
		}
		// Both default channel roots end in "User", so the suffixed key
		// can itself collide; index further rather than overwrite.
		renamed := key + "_" + filepath.Base(result.root)
		for n := 2; ; n++ {
			if _, taken := corpus.Metadata[renamed]; !taken {
				break
			}
			renamed = fmt.Sprintf("%s_%s_%d", key, filepath.Base(result.root), n)
		}
		corpus.Metadata[renamed] = value
	}

	if len(result.sessions) > 0 {
		corpus.WorkspacePath = result.root
	}
}

func concatArrays(a, b interface{}) (interface{}, bool) {
	switch av := a.(type) {
	case []interface{}:
		if bv, ok := b.([]interface{}); ok {
			return append(append([]interface{}{}, av...), bv...), true
		}
	case []string:
		if bv, ok := b.([]string); ok {
			return append(append([]string{}, av...), bv...), true
		}
	}
	return nil, false
}
