package ops

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/folders"
	"github.com/dzieju/dzieju-app2/internal/mail"
	"github.com/dzieju/dzieju-app2/internal/worker"
	"github.com/dzieju/dzieju-app2/pkg/types"
)

// ListFoldersOp fetches an account's folders and renders them as the
// classified display forest, flattened depth-first.
type ListFoldersOp struct {
	manager *mail.Manager
	logger  *logrus.Logger
}

// NewListFoldersOp creates the folder-listing operation.
func NewListFoldersOp(manager *mail.Manager, logger *logrus.Logger) *ListFoldersOp {
	return &ListFoldersOp{manager: manager, logger: logger}
}

// Name returns the operation name.
func (o *ListFoldersOp) Name() string {
	return "folders.list"
}

// Description returns the operation description.
func (o *ListFoldersOp) Description() string {
	return "List an account's mail folders as a classified tree with Polish labels and message counts"
}

// Execute executes the operation.
func (o *ListFoldersOp) Execute(params map[string]interface{}, token *worker.Token) (interface{}, error) {
	accountName, _ := params["account"].(string)

	list, err := o.manager.ListFolders(accountName)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	if token != nil && token.Cancelled() {
		return nil, nil
	}

	builder := &folders.Builder{Translator: folders.PolishTranslator{}}
	roots := builder.Build(list)

	listing := &types.FolderListing{AccountName: accountName}
	for _, root := range roots {
		flatten(root, 0, listing)
	}
	return listing, nil
}

// flatten walks the forest depth-first, recording each node's depth for
// indentation-based rendering.
func flatten(node *folders.Node, depth int, listing *types.FolderListing) {
	f := node.Folder
	listing.Folders = append(listing.Folders, types.FolderEntry{
		Path:          f.Name,
		Label:         node.Label,
		Icon:          f.Icon,
		Role:          string(f.Role),
		Depth:         depth,
		MessageCount:  f.MessageCount,
		SizeFormatted: f.FormatSize(),
	})
	for _, child := range node.Children {
		flatten(child, depth+1, listing)
	}
}
