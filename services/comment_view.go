package services

import (
	"context"
	"time"

	"recipeshare/models"
	"recipeshare/utils"
)

// PlaceholderAuthorName is shown when a comment's author record no longer
// resolves. Listing stays usable even with orphaned author references.
const PlaceholderAuthorName = "未知用户"

// UserDirectory resolves author identities for view assembly. Implemented by
// repository.UserDirectory in production and by fakes in tests.
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
}

// UserView is the author identity denormalized into a comment view.
type UserView struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CommentView is the read-facing shape of a comment.
type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Rating    *int      `json:"rating,omitempty"`
	Images    []string  `json:"images"`
	Likes     int64     `json:"likes"`
	ParentID  *uint     `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	User      UserView  `json:"user"`
}

// CommentAssembler turns persisted comments into views, resolving authors in
// one batched directory lookup.
type CommentAssembler struct {
	users UserDirectory
}

// NewCommentAssembler creates a CommentAssembler.
func NewCommentAssembler(users UserDirectory) *CommentAssembler {
	return &CommentAssembler{users: users}
}

// Assemble builds views for a page of comments.
func (a *CommentAssembler) Assemble(ctx context.Context, comments []models.Comment) ([]CommentView, error) {
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}

	authors := map[uint]models.User{}
	if len(ids) > 0 {
		var err error
		authors, err = a.users.FindByIDs(ctx, utils.UniqueUint(ids))
		if err != nil {
			return nil, err
		}
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, buildCommentView(c, authors[c.UserID]))
	}
	return views, nil
}

// AssembleOne builds the view for a single comment.
func (a *CommentAssembler) AssembleOne(ctx context.Context, comment models.Comment) (*CommentView, error) {
	authors, err := a.users.FindByIDs(ctx, []uint{comment.UserID})
	if err != nil {
		return nil, err
	}
	view := buildCommentView(comment, authors[comment.UserID])
	return &view, nil
}

func buildCommentView(c models.Comment, author models.User) CommentView {
	name := PlaceholderAuthorName
	if author.ID != 0 {
		name = author.DisplayName()
	}

	images := c.Images
	if images == nil {
		images = []string{}
	}

	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Rating:    c.Rating,
		Images:    images,
		Likes:     c.Likes,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		User: UserView{
			ID:     author.ID,
			Name:   name,
			Avatar: author.AvatarURL,
		},
	}
}
