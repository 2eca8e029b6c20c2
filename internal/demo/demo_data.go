// Package demo provides a simulated repository for exploring gitflow
// commands without a real git repository.
package demo

// Branch is a simulated branch: its commits are stacked on top of Parent.
type Branch struct {
	Name    string
	Parent  string
	Commits []Change
}

// Change is one simulated commit touching a single file.
type Change struct {
	File    string
	Content string
	Message string
}

// Demo history: dev carries two features ahead of main, and release sits
// at main so `merge-to release` has something to carry over.
var demoBranches = []Branch{
	{
		Name: "main",
		Commits: []Change{
			{File: "README.md", Content: "# demo\n", Message: "chore: initial commit"},
			{File: "src/app.go", Content: "package app\n", Message: "feat: scaffold app"},
		},
	},
	{
		Name:   "dev",
		Parent: "main",
		Commits: []Change{
			{File: "src/auth.go", Content: "package app\n\n// auth\n", Message: "feat(#101): add authentication base"},
			{File: "src/login.go", Content: "package app\n\n// login\n", Message: "feat(#102): implement login flow"},
		},
	},
	{
		Name:   "release",
		Parent: "main",
	},
}
