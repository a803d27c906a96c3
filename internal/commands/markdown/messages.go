package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importDirectoryMessageType = "slugless.markdown.import_directory"

// ImportDirectoryCommand imports every Markdown file under Directory as posts.
type ImportDirectoryCommand struct {
	// Directory is resolved against the markdown base path.
	Directory string `json:"directory"`
	// PostType assigns the imported posts' type. Empty means landing_page.
	PostType string `json:"post_type,omitempty"`
	// DefaultStatus applies to documents without status or draft metadata.
	DefaultStatus string `json:"default_status,omitempty"`
	Recursive     *bool  `json:"recursive,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures a directory is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("slugless.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.PostType, validation.Length(0, 20)),
		validation.Field(&cmd.DefaultStatus, validation.In("publish", "draft")),
	)
}
