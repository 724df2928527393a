package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"recipeshare/models"
	"recipeshare/repository"
	"recipeshare/utils"
)

// MaxCommentLength caps comment content in characters.
const MaxCommentLength = 500

// RecipeCatalog is the recipe collaborator the comment subsystem depends on.
// Recipes themselves are outside this service; it only needs existence checks
// and a way to trigger aggregate refreshes.
type RecipeCatalog interface {
	Exists(ctx context.Context, recipeID uint) (bool, error)
}

// RecipeAggregator recomputes a recipe's derived numbers (rating average,
// rating count, comment count) from its live comments.
type RecipeAggregator interface {
	Refresh(ctx context.Context, recipeID uint) error
}

// CommentInput is the payload for creating a comment or a reply.
type CommentInput struct {
	Content string   `json:"content"`
	Rating  *int     `json:"rating,omitempty"`
	Images  []string `json:"images"`
}

// CommentService implements comment creation, threaded replies, like
// toggling, paginated listing, and soft deletion. It holds no per-call state;
// everything durable lives behind the repository.
type CommentService struct {
	repo       *repository.CommentRepository
	assembler  *CommentAssembler
	recipes    RecipeCatalog
	aggregates RecipeAggregator
}

// NewCommentService wires the service with its collaborators.
func NewCommentService(repo *repository.CommentRepository, users UserDirectory, recipes RecipeCatalog, aggregates RecipeAggregator) *CommentService {
	return &CommentService{
		repo:       repo,
		assembler:  NewCommentAssembler(users),
		recipes:    recipes,
		aggregates: aggregates,
	}
}

func validateCommentInput(in *CommentInput) error {
	in.Content = utils.Sanitize(strings.TrimSpace(in.Content))
	if in.Content == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(in.Content) > MaxCommentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, MaxCommentLength)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

// CreateComment adds a top-level comment to a recipe. A present rating marks
// the comment as a review and triggers an aggregate refresh.
func (s *CommentService) CreateComment(ctx context.Context, recipeID uint, in CommentInput, author models.User) (*CommentView, error) {
	if err := validateCommentInput(&in); err != nil {
		return nil, err
	}

	ok, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
	}

	comment := &models.Comment{
		RecipeID: recipeID,
		UserID:   author.ID,
		Content:  in.Content,
		Rating:   in.Rating,
		Images:   in.Images,
	}
	if err := s.repo.Insert(ctx, comment); err != nil {
		return nil, err
	}

	s.refreshAggregates(ctx, recipeID)

	view := buildCommentView(*comment, author)
	return &view, nil
}

// ReplyComment adds a reply under an existing comment of the same recipe.
// Replying to a missing, deleted, or differently-scoped parent fails with
// ErrNotFound. A rating on a reply is stored but never feeds the recipe
// aggregate.
func (s *CommentService) ReplyComment(ctx context.Context, recipeID, parentID uint, in CommentInput, author models.User) (*CommentView, error) {
	if err := validateCommentInput(&in); err != nil {
		return nil, err
	}

	parent, err := s.repo.FindByID(ctx, recipeID, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: parent comment %d", ErrNotFound, parentID)
	}

	comment := &models.Comment{
		RecipeID: recipeID,
		UserID:   author.ID,
		Content:  in.Content,
		Rating:   in.Rating,
		Images:   in.Images,
		ParentID: &parent.ID,
	}
	if err := s.repo.Insert(ctx, comment); err != nil {
		return nil, err
	}

	s.refreshAggregates(ctx, recipeID)

	view := buildCommentView(*comment, author)
	return &view, nil
}

// GetRecipeComments returns one page of a recipe's comments, newest first,
// plus the total number of live comments. Pages past the end come back empty
// with the total unchanged.
func (s *CommentService) GetRecipeComments(ctx context.Context, recipeID uint, page, limit int) ([]CommentView, int64, error) {
	if page < 1 || limit < 1 {
		return nil, 0, fmt.Errorf("%w: page and limit must be positive", ErrValidation)
	}

	comments, total, err := s.repo.FindPage(ctx, recipeID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.assembler.Assemble(ctx, comments)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetCommentByID returns the view of one comment, or (nil, nil) when it does
// not exist, was deleted, or belongs to a different recipe. Absence is an
// expected outcome here, not an error.
func (s *CommentService) GetCommentByID(ctx context.Context, recipeID, commentID uint) (*CommentView, error) {
	comment, err := s.repo.FindByID(ctx, recipeID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, nil
	}
	return s.assembler.AssembleOne(ctx, *comment)
}

// LikeComment adds userID to the comment's like set. Liking twice is a no-op
// that still succeeds; the counter always equals the set size.
func (s *CommentService) LikeComment(ctx context.Context, commentID, userID uint) (bool, error) {
	comment, err := s.repo.FindAnyByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil {
		return false, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}

	if _, _, err := s.repo.AddLike(ctx, commentID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// UnlikeComment removes userID from the like set. Unliking without a prior
// like is a no-op that still succeeds.
func (s *CommentService) UnlikeComment(ctx context.Context, commentID, userID uint) (bool, error) {
	comment, err := s.repo.FindAnyByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil {
		return false, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}

	if _, _, err := s.repo.RemoveLike(ctx, commentID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteComment soft-deletes a comment after an ownership check. Replies are
// left alone: they stay independently addressable under their surviving
// parent reference.
func (s *CommentService) DeleteComment(ctx context.Context, recipeID, commentID, requesterID uint) (bool, error) {
	comment, err := s.repo.FindByID(ctx, recipeID, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil {
		return false, fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}
	if comment.UserID != requesterID {
		return false, fmt.Errorf("%w: only the author can delete a comment", ErrPermission)
	}

	if err := s.repo.MarkDeleted(ctx, commentID); err != nil {
		return false, err
	}

	s.refreshAggregates(ctx, recipeID)
	return true, nil
}

// refreshAggregates is best-effort: a failed aggregate refresh is logged,
// never surfaced, so the comment operation that triggered it still succeeds.
func (s *CommentService) refreshAggregates(ctx context.Context, recipeID uint) {
	if s.aggregates == nil {
		return
	}
	if err := s.aggregates.Refresh(ctx, recipeID); err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("refresh aggregates for recipe %d failed: %v", recipeID, err)
	}
}
