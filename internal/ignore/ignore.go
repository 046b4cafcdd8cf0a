package ignore

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is a single parsed .gitignore pattern.
type Rule struct {
	Pattern  string
	Negate   bool // "!" prefix re-includes a previously ignored path
	DirOnly  bool // trailing "/" restricts the rule to directories
	Anchored bool // leading "/" or an inner "/" anchors the rule to the ruleset dir
}

// RuleSet holds the rules of one .gitignore file. Dir is the directory the
// file lives in, relative to the walk root ("" for the root itself).
type RuleSet struct {
	Dir   string
	Rules []Rule
}

// ParseFile reads a .gitignore at path whose directory is dir relative to
// the walk root. A missing file yields an empty set.
func ParseFile(path, dir string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RuleSet{Dir: dir}, nil
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f, dir)
}

// Parse parses .gitignore syntax from r.
func Parse(r io.Reader, dir string) (*RuleSet, error) {
	rs := &RuleSet{Dir: dir}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rs.Rules = append(rs.Rules, parseRule(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

func parseRule(line string) Rule {
	r := Rule{}

	if strings.HasPrefix(line, "!") {
		r.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.DirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.Anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		// A separator anywhere in the pattern anchors it to the ruleset dir.
		r.Anchored = true
	}

	r.Pattern = line
	return r
}

// glob returns the doublestar pattern the rule matches against paths that
// are relative to the ruleset directory.
func (r Rule) glob() string {
	if r.Anchored {
		return r.Pattern
	}
	return "**/" + r.Pattern
}

// matches reports whether relPath (relative to the ruleset dir, forward
// slashes) is matched by the rule. Directory rules also match everything
// under a matched directory, as git does.
func (r Rule) matches(relPath string, isDir bool) bool {
	glob := r.glob()

	if ok, _ := doublestar.Match(glob, relPath); ok {
		return !r.DirOnly || isDir || strings.Contains(relPath, "/")
	}

	// Check whether any parent directory of relPath matches: ignoring a
	// directory ignores its entire subtree.
	segs := strings.Split(relPath, "/")
	for i := 1; i < len(segs); i++ {
		prefix := strings.Join(segs[:i], "/")
		if ok, _ := doublestar.Match(glob, prefix); ok {
			return true
		}
	}
	return false
}

// Stack is the ordered collection of rule sets between the walk root and
// the current directory, plus built-in exclusions that apply everywhere.
// Deeper rule sets take precedence; within a set the last matching rule
// wins, matching git's behavior.
type Stack struct {
	sets            []*RuleSet
	ignoredDirs     map[string]struct{}
	ignoredPatterns []string
}

// vcsDirs are always excluded, independent of any ignore file.
var vcsDirs = map[string]struct{}{
	".git": {},
	".hg":  {},
	".svn": {},
}

// NewStack creates a rule stack with the built-in exclusions.
func NewStack(ignoredDirs, ignoredPatterns []string) *Stack {
	dirs := make(map[string]struct{}, len(ignoredDirs))
	for _, d := range ignoredDirs {
		dirs[d] = struct{}{}
	}
	return &Stack{
		ignoredDirs:     dirs,
		ignoredPatterns: ignoredPatterns,
	}
}

// Push adds a rule set for a directory being entered.
func (s *Stack) Push(rs *RuleSet) {
	s.sets = append(s.sets, rs)
}

// Pop removes the most recently pushed rule set.
func (s *Stack) Pop() {
	if len(s.sets) > 0 {
		s.sets = s.sets[:len(s.sets)-1]
	}
}

// Depth returns the number of pushed rule sets.
func (s *Stack) Depth() int {
	return len(s.sets)
}

// Match reports whether relPath (relative to the walk root) should be
// excluded from the walk.
func (s *Stack) Match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	base := relPath
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		base = relPath[i+1:]
	}

	if isDir {
		if _, ok := vcsDirs[base]; ok {
			return true
		}
		if _, ok := s.ignoredDirs[base]; ok {
			return true
		}
	} else {
		lower := strings.ToLower(base)
		for _, p := range s.ignoredPatterns {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}

	ignored := false
	for _, rs := range s.sets {
		rel := relPath
		if rs.Dir != "" {
			if !strings.HasPrefix(relPath, rs.Dir+"/") {
				continue
			}
			rel = relPath[len(rs.Dir)+1:]
		}
		for _, rule := range rs.Rules {
			if rule.matches(rel, isDir) {
				ignored = !rule.Negate
			}
		}
	}
	return ignored
}
