package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]*model.Post, int64, error)
	AppendComment(ctx context.Context, postID primitive.ObjectID, c *model.Comment) error
	IncrementLikes(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

// LikeCache is the optional redis front for like counters. Nil disables it;
// errors fall through to the durable counter.
type LikeCache interface {
	Liked(ctx context.Context, postID, uid string) (bool, error)
	Record(ctx context.Context, postID, uid string, count int64) error
	Count(ctx context.Context, postID string) (int64, error)
}

type PostService struct {
	repo        PostRepository
	members     MemberRepository
	broadcaster Broadcaster
	likes       LikeCache
}

func NewPostService(repo PostRepository, members MemberRepository, b Broadcaster, likes LikeCache) *PostService {
	return &PostService{repo: repo, members: members, broadcaster: b, likes: likes}
}

func (s *PostService) List(ctx context.Context, page, limit int) ([]model.ResolvedPost, int64, error) {
	posts, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	authors, err := s.commentAuthors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}

	resolved := make([]model.ResolvedPost, 0, len(posts))
	for _, p := range posts {
		resolved = append(resolved, s.resolve(p, authors))
	}
	return resolved, total, nil
}

func (s *PostService) Create(ctx context.Context, authorUID, title, content string) (*model.ResolvedPost, error) {
	if title == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "title is required")
	}
	if content == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "content is required")
	}

	p := &model.Post{
		Title:     title,
		Content:   content,
		AuthorUID: authorUID,
		CreatedAt: time.Now().UTC(),
		Comments:  []model.Comment{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if member, err := s.members.FindByUID(ctx, authorUID); err == nil {
		ref := member.AuthorRef()
		p.AuthorInfo = &ref
	}
	resolved := s.resolve(p, nil)

	s.broadcaster.Publish(model.TopicPosts, model.KindNewPost, p.ID.Hex(), resolved)
	return &resolved, nil
}

// CreateComment appends the comment and returns it in raw form (author as
// uid); the broadcast carries the resolved form. The createdAt timestamp is
// server-assigned.
func (s *PostService) CreateComment(ctx context.Context, postID, authorUID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.Wrap(pkg.ErrValidation, "content is required")
	}
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, pkg.Wrap(pkg.ErrNotFound, "post not found")
	}

	comment := &model.Comment{
		ID:        primitive.NewObjectID(),
		AuthorUID: authorUID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AppendComment(ctx, oid, comment); err != nil {
		return nil, err
	}

	// re-read with references resolved and broadcast the last comment
	post, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		log.Error().Err(err).Str("post", postID).Msg("comment broadcast re-read failed")
		return comment, nil
	}
	authors, err := s.commentAuthors(ctx, []*model.Post{post})
	if err != nil {
		log.Error().Err(err).Str("post", postID).Msg("comment author resolution failed")
		return comment, nil
	}
	resolved := s.resolve(post, authors)
	if len(resolved.Comments) > 0 {
		s.broadcaster.Publish(model.TopicPosts, model.KindNewComment, post.ID.Hex(), model.NewComment{
			PostID:  post.ID.Hex(),
			Comment: resolved.Comments[len(resolved.Comments)-1],
		})
		s.notifyPostAuthor(post, resolved.Comments[len(resolved.Comments)-1])
	}
	return comment, nil
}

// notifyPostAuthor pushes a personal notification to the post's author.
// Commenting on your own post stays quiet.
func (s *PostService) notifyPostAuthor(post *model.Post, c model.ResolvedComment) {
	if post.AuthorUID == c.Author.ID {
		return
	}
	commenter := c.Author.Name
	if commenter == "" {
		commenter = c.Author.ID
	}
	s.broadcaster.Publish(model.UserTopic(post.AuthorUID), model.KindNotification, post.AuthorUID, model.Notification{
		ID:        primitive.NewObjectID().Hex(),
		Message:   commenter + " commented on your post \"" + post.Title + "\"",
		Timestamp: c.CreatedAt,
	})
}

// Like bumps the post's like counter. The redis cache makes repeat likes by
// the same member idempotent while its record lives.
func (s *PostService) Like(ctx context.Context, postID, uid string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, pkg.Wrap(pkg.ErrNotFound, "post not found")
	}

	if s.likes != nil {
		if liked, err := s.likes.Liked(ctx, postID, uid); err == nil && liked {
			if count, err := s.likes.Count(ctx, postID); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.repo.IncrementLikes(ctx, oid)
	if err != nil {
		return 0, err
	}
	if s.likes != nil {
		if err := s.likes.Record(ctx, postID, uid, count); err != nil {
			log.Warn().Err(err).Str("post", postID).Msg("like cache write failed")
		}
	}
	return count, nil
}

// commentAuthors resolves every distinct comment author uid in one lookup.
func (s *PostService) commentAuthors(ctx context.Context, posts []*model.Post) (map[string]model.Author, error) {
	seen := make(map[string]struct{})
	var uids []string
	for _, p := range posts {
		for _, c := range p.Comments {
			if _, ok := seen[c.AuthorUID]; !ok {
				seen[c.AuthorUID] = struct{}{}
				uids = append(uids, c.AuthorUID)
			}
		}
	}

	authors := make(map[string]model.Author, len(uids))
	members, err := s.members.FindByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		authors[m.UID] = m.AuthorRef()
	}
	return authors, nil
}

func (s *PostService) resolve(p *model.Post, authors map[string]model.Author) model.ResolvedPost {
	author := model.Author{ID: p.AuthorUID}
	if p.AuthorInfo != nil {
		author = *p.AuthorInfo
	}

	comments := make([]model.ResolvedComment, 0, len(p.Comments))
	for _, c := range p.Comments {
		ca, ok := authors[c.AuthorUID]
		if !ok {
			ca = model.Author{ID: c.AuthorUID}
		}
		comments = append(comments, model.ResolvedComment{
			ID:        c.ID,
			Author:    ca,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}

	return model.ResolvedPost{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    author,
		CreatedAt: p.CreatedAt,
		Likes:     p.Likes,
		Comments:  comments,
	}
}
