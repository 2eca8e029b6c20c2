package demo

import (
	"os"

	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/memgit"
)

// TemplateURL is the only URL the demo cloner serves.
const TemplateURL = "https://example.com/gitflow/template.git"

// IsDemoMode returns true if GITFLOW_DEMO is set
func IsDemoMode() bool {
	return os.Getenv("GITFLOW_DEMO") != ""
}

// NewEngine returns an in-memory repository seeded with the demo branches,
// checked out on dev, with an "origin" remote holding main.
func NewEngine() *memgit.Engine {
	server := memgit.New()
	eng := memgit.New()

	for _, b := range demoBranches {
		if b.Parent != "" {
			_ = eng.CreateBranchAt(b.Name, b.Parent)
			_ = eng.CheckoutBranch(b.Name)
		}
		for _, c := range b.Commits {
			eng.WriteFile(c.File, c.Content)
			eng.Commit(c.Message + "\n")
		}
	}

	eng.AddRemote("origin", server)
	server.Adopt(eng, "main")
	_ = eng.CheckoutBranch("dev")
	return eng
}

// NewCloner serves a fresh demo repository under TemplateURL.
func NewCloner() git.Cloner {
	return memgit.Cloner(map[string]*memgit.Engine{TemplateURL: NewEngine()})
}
