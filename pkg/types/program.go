package types

// Repository is the directory holding the canonical copies of all managed
// files. It is never mutated.
type Repository struct {
	Path string `json:"path"`
}

// Program is a named group of related files sharing a target root.
// Paths are relative to both Root and Repository/Name.
type Program struct {
	Name          string   `json:"name"`
	Root          string   `json:"root"`
	Paths         []string `json:"paths"`
	PostDeployCmd string   `json:"post_deploy_cmd,omitempty"`
}

// HasPostDeploy reports whether the program declares a post-deploy command
func (p Program) HasPostDeploy() bool {
	return p.PostDeployCmd != ""
}
