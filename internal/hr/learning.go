package hr

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/metrics"
	"github.com/marcus-qen/hragent/internal/normalize"
	"github.com/marcus-qen/hragent/internal/record"
	"github.com/marcus-qen/hragent/internal/workday"
)

// SearchLearningContent searches the catalog and attaches each item's lessons.
// A failed lesson fetch leaves only that item without lessons.
func (s *Service) SearchLearningContent(ctx context.Context, skills, topics []string) ([]normalize.Content, error) {
	var content []normalize.Content
	err := s.observe(ctx, OpSearchLearningContent, func(ctx context.Context) error {
		result, err := s.backend.SearchLearningContent(ctx, nonEmpty(skills), nonEmpty(topics))
		if err != nil {
			return err
		}

		items := result.List("data")
		content = make([]normalize.Content, 0, len(items))
		for _, item := range items {
			lessons, err := s.lessonsFor(ctx, item)
			if err != nil {
				return err
			}
			content = append(content, normalize.FlattenContent(item, normalize.FlattenLessons(lessons)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Service) lessonsFor(ctx context.Context, item record.Record) ([]record.Record, error) {
	id := item.Str("id")
	if id == nil || *id == "" {
		return nil, nil
	}

	lessons, err := s.backend.ContentLessons(ctx, *id)
	var backendErr *workday.BackendError
	if errors.As(err, &backendErr) {
		s.logger.Warn("failed to fetch lessons for content",
			zap.String("content_id", *id),
			zap.Int("status", backendErr.StatusCode),
			zap.Error(err),
		)
		metrics.RecordLessonFetchFailure()
		return nil, nil
	}
	return lessons, err
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
