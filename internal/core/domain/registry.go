package domain

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Registry is the ordered list of jobs of one invocation.
type Registry struct {
	jobs  []Job
	index map[JobID]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[JobID]int)}
}

// Add validates a job and appends it.
func (r *Registry) Add(job Job) error {
	if err := validateJob(&job); err != nil {
		return zerr.With(err, "job", string(job.ID()))
	}
	id := job.ID()
	if _, ok := r.index[id]; ok {
		return zerr.With(ErrDuplicateJob, "job", string(id))
	}
	r.index[id] = len(r.jobs)
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns the jobs in declaration order.
func (r *Registry) Jobs() []Job {
	return r.jobs
}

// Len returns the number of jobs.
func (r *Registry) Len() int {
	return len(r.jobs)
}

// Validate checks relations between jobs that a single job cannot check on its own.
// A CMake job wipes its install root, so no other job may write into, above or below it.
// Manual jobs are judged by where their rules write, not by their install subdir.
func (r *Registry) Validate(settings *Settings) error {
	if len(r.jobs) == 0 {
		return ErrNoJobs
	}
	for i := range r.jobs {
		a := &r.jobs[i]
		if a.Kind != KindCMake {
			continue
		}
		rootA := settings.RootOf(a)
		if rootA == "." {
			return zerr.With(ErrConflictingInstallRoot, "job", string(a.ID()))
		}
		for j := range r.jobs {
			if i == j {
				continue
			}
			b := &r.jobs[j]
			if anyOverlap([]string{rootA}, writeRoots(settings, b)) {
				err := zerr.With(ErrConflictingInstallRoot, "job", string(a.ID()))
				return zerr.With(err, "other", string(b.ID()))
			}
		}
		if settings.CacheDir != "" && isWithin(settings.CacheDir, settings.InstallRoot(a)) {
			return zerr.With(ErrCacheInsideInstallRoot, "job", string(a.ID()))
		}
	}
	return nil
}

func isWithin(p, root string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Lanes groups job indices whose install roots overlap. Jobs of one lane must run
// sequentially in declaration order; distinct lanes may run concurrently.
// Lanes are ordered by their first job.
func (r *Registry) Lanes(settings *Settings) [][]int {
	parent := make([]int, len(r.jobs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	roots := make([][]string, len(r.jobs))
	for i := range r.jobs {
		roots[i] = writeRoots(settings, &r.jobs[i])
	}
	for i := range r.jobs {
		for j := i + 1; j < len(r.jobs); j++ {
			if anyOverlap(roots[i], roots[j]) {
				pi, pj := find(i), find(j)
				if pi < pj {
					parent[pj] = pi
				} else if pj < pi {
					parent[pi] = pj
				}
			}
		}
	}

	var lanes [][]int
	laneOf := make(map[int]int)
	for i := range r.jobs {
		p := find(i)
		idx, ok := laneOf[p]
		if !ok {
			idx = len(lanes)
			laneOf[p] = idx
			lanes = append(lanes, nil)
		}
		lanes[idx] = append(lanes[idx], i)
	}
	return lanes
}

// writeRoots returns the directories, relative to the install dir, a job writes into.
func writeRoots(settings *Settings, job *Job) []string {
	root := settings.RootOf(job)
	if job.Kind != KindManual || job.Manual == nil {
		return []string{root}
	}
	roots := make([]string, 0, len(job.Manual.Rules))
	for _, rule := range job.Manual.Rules {
		roots = append(roots, NormalizePath(path.Join(root, NormalizePath(rule.Destination))))
	}
	return roots
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if rootsOverlap(x, y) {
				return true
			}
		}
	}
	return false
}

func rootsOverlap(a, b string) bool {
	if a == "." || b == "." || a == b {
		return true
	}
	return strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

func validateJob(job *Job) error {
	if strings.TrimSpace(job.SourceSubdir) == "" || NormalizePath(job.SourceSubdir) == "." {
		return ErrEmptySourceSubdir
	}
	if !isContained(job.SourceSubdir) {
		return zerr.With(ErrPathEscapesRoot, "path", job.SourceSubdir)
	}
	if !isContained(job.InstallSubdir) {
		return zerr.With(ErrPathEscapesRoot, "path", job.InstallSubdir)
	}
	switch job.Kind {
	case KindCMake:
		if job.CMake == nil {
			return zerr.With(ErrConfiguration, "kind", job.Kind.String())
		}
		if !isContained(job.CMake.BuildFolder) || NormalizePath(job.CMake.BuildFolder) == "." {
			return zerr.With(ErrPathEscapesRoot, "path", job.CMake.BuildFolder)
		}
	case KindHeaderOnly:
		if job.HeaderOnly == nil || len(job.HeaderOnly.Patterns) == 0 {
			return ErrNoPatterns
		}
		for _, p := range job.HeaderOnly.Patterns {
			if strings.TrimSpace(p) == "" {
				return ErrEmptyPattern
			}
			if !isContained(p) {
				return zerr.With(ErrPathEscapesRoot, "pattern", p)
			}
		}
	case KindManual:
		if job.Manual == nil || len(job.Manual.Rules) == 0 {
			return ErrNoInstallRules
		}
		for _, rule := range job.Manual.Rules {
			if strings.TrimSpace(rule.Include) == "" {
				return ErrEmptyPattern
			}
			if !isContained(rule.Include) {
				return zerr.With(ErrPathEscapesRoot, "pattern", rule.Include)
			}
			if !isContained(rule.Destination) {
				return zerr.With(ErrPathEscapesRoot, "path", rule.Destination)
			}
		}
	default:
		return zerr.With(ErrConfiguration, "kind", job.Kind.String())
	}
	return nil
}
