package service

import (
	"context"
	"fmt"
	"strings"

	"verse/internal/models"
	"verse/internal/observability"
	"verse/internal/repository"
)

// PageSize is the fixed number of poems per listing page.
const PageSize = 10

const (
	maxTitleLen   = 300
	maxContentLen = 20000
)

// PoemService handles poem publishing, listing, likes and comments.
type PoemService struct {
	poemRepo    repository.PoemRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

// CreatePoemInput is the payload for publishing a poem.
type CreatePoemInput struct {
	Username string
	Title    string
	Content  string
}

// UpdatePoemInput is the payload for editing a poem.
type UpdatePoemInput struct {
	Username string
	PoemID   uint
	Title    string
	Content  string
}

// ListPoemsInput carries the listing filters. The Set flags record whether
// the corresponding query parameter was present at all, which matters
// because an empty search is a valid request for everything.
type ListPoemsInput struct {
	Page        int
	PageSet     bool
	Username    string
	UsernameSet bool
	Search      string
	SearchSet   bool
	LikedOnly   bool
}

// NewPoemService creates a new PoemService.
func NewPoemService(
	poemRepo repository.PoemRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *PoemService {
	return &PoemService{
		poemRepo:    poemRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func validatePoemFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxTitleLen))
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", maxContentLen))
	}
	return nil
}

// CreatePoem publishes a poem owned by the authenticated account. The
// owner's username and display name are stamped onto the poem from the
// account record, never from the request body.
func (s *PoemService) CreatePoem(ctx context.Context, in CreatePoemInput) (*models.Poem, error) {
	if err := validatePoemFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInternalError(fmt.Errorf("authenticated account %q not found", in.Username))
	}

	poem := &models.Poem{
		Title:       in.Title,
		Content:     in.Content,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
	}
	if err := s.poemRepo.Create(ctx, poem); err != nil {
		return nil, err
	}
	observability.PoemsCreated.Inc()
	return poem, nil
}

// GetPoem returns a single poem with its full comment tree.
func (s *PoemService) GetPoem(ctx context.Context, id uint) (*models.Poem, error) {
	return s.poemRepo.GetByID(ctx, id)
}

// ListPoems returns one page of poem summaries, newest first.
//
// The page parameter is required and zero-based. Exactly one of the username
// and search filters must be present; an empty search means all poems, and
// the liked flag narrows the username filter to poems that user has liked.
func (s *PoemService) ListPoems(ctx context.Context, in ListPoemsInput) ([]models.PoemListItem, error) {
	if !in.PageSet {
		return nil, models.NewValidationError("page is required")
	}
	if in.Page < 0 {
		return nil, models.NewValidationError("page cannot be negative")
	}
	if in.UsernameSet == in.SearchSet {
		return nil, models.NewValidationError("exactly one of username and search must be provided")
	}
	if in.LikedOnly && !in.UsernameSet {
		return nil, models.NewValidationError("likes requires a username")
	}

	limit, offset := PageSize, in.Page*PageSize

	var (
		poems []*models.Poem
		err   error
	)
	switch {
	case in.SearchSet && in.Search == "":
		poems, err = s.poemRepo.List(ctx, limit, offset)
	case in.SearchSet:
		poems, err = s.poemRepo.Search(ctx, in.Search, limit, offset)
	case in.LikedOnly:
		var user *models.User
		user, err = s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.NewNotFoundError("User", in.Username)
		}
		poems, err = s.poemRepo.ListLikedBy(ctx, user.ID, limit, offset)
	default:
		poems, err = s.poemRepo.ListByUsername(ctx, in.Username, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	items := make([]models.PoemListItem, 0, len(poems))
	for _, p := range poems {
		items = append(items, p.ListItem())
	}
	return items, nil
}

// UpdatePoem edits the title and content of a poem owned by the caller.
func (s *PoemService) UpdatePoem(ctx context.Context, in UpdatePoemInput) error {
	if err := validatePoemFields(in.Title, in.Content); err != nil {
		return err
	}

	poem, err := s.poemRepo.GetByID(ctx, in.PoemID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, in.Username, poem); err != nil {
		return err
	}

	return s.poemRepo.Update(ctx, poem.ID, in.Title, in.Content)
}

// DeletePoem removes a poem owned by the caller along with its comments and
// likes.
func (s *PoemService) DeletePoem(ctx context.Context, username string, poemID uint) error {
	poem, err := s.poemRepo.GetByID(ctx, poemID)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, username, poem); err != nil {
		return err
	}

	return s.poemRepo.Delete(ctx, poem.ID)
}

// ToggleLike flips the caller's like on the poem: liked becomes unliked and
// vice versa. A poem's owner cannot like their own poem.
func (s *PoemService) ToggleLike(ctx context.Context, username string, poemID uint) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewInternalError(fmt.Errorf("authenticated account %q not found", username))
	}

	poem, err := s.poemRepo.GetByID(ctx, poemID)
	if err != nil {
		return err
	}
	// Ownership is judged the same way as for edits: both the foreign key
	// and the stored username, and a diverged record is reported.
	ownsByID := poem.UserID == user.ID
	ownsByName := poem.Username == user.Username
	if ownsByID != ownsByName {
		return models.NewInternalError(fmt.Errorf("ownership records disagree for poem %d", poem.ID))
	}
	if ownsByID {
		return models.NewForbiddenError("You cannot like your own poem")
	}

	liked, err := s.poemRepo.IsLiked(ctx, user.ID, poem.ID)
	if err != nil {
		return err
	}
	if liked {
		return s.poemRepo.Unlike(ctx, user.ID, poem.ID)
	}
	return s.poemRepo.Like(ctx, user.ID, poem.ID)
}

// AddComment attaches a comment to a poem.
func (s *PoemService) AddComment(ctx context.Context, username, displayName string, poemID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	// Existence check first so a comment on a missing poem changes nothing.
	poem, err := s.poemRepo.GetByID(ctx, poemID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PoemID:      poem.ID,
		Username:    username,
		DisplayName: displayName,
		Content:     content,
	}
	if err := s.commentRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// AddReply attaches a reply to a comment on a poem. Replies nest exactly one
// level: there is no reply to a reply.
func (s *PoemService) AddReply(ctx context.Context, username, displayName string, poemID, commentID uint, content string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	comment, err := s.commentRepo.GetPoemComment(ctx, poemID, commentID)
	if err != nil {
		return nil, err
	}

	reply := &models.Reply{
		CommentID:   comment.ID,
		Username:    username,
		DisplayName: displayName,
		Content:     content,
	}
	if err := s.commentRepo.AddReply(ctx, poemID, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// authorizeOwner checks that the caller owns the poem. Ownership is recorded
// twice, as the UserID foreign key and as the denormalized username; the two
// must agree, and a record where they diverge is reported as corruption
// rather than resolved either way.
func (s *PoemService) authorizeOwner(ctx context.Context, username string, poem *models.Poem) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewInternalError(fmt.Errorf("authenticated account %q not found", username))
	}

	ownsByID := poem.UserID == user.ID
	ownsByName := poem.Username == user.Username
	if ownsByID != ownsByName {
		return models.NewInternalError(fmt.Errorf("ownership records disagree for poem %d", poem.ID))
	}
	if !ownsByID {
		return models.NewForbiddenError("You do not own this poem")
	}
	return nil
}
