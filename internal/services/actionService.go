package services

import (
	"context"

	"kobogate/internal/metrics"
	"kobogate/internal/pocket"
	"kobogate/internal/readeck"
)

// ActionService applies a batch of client-issued state changes against
// the backend, strictly in input order.
type ActionService interface {
	Apply(ctx context.Context, token string, actions []pocket.Action) (*pocket.SendResponse, error)
}

type actionServiceImpl struct {
	clients ReadeckFactory
}

func NewActionService(clients ReadeckFactory) ActionService {
	return &actionServiceImpl{clients: clients}
}

// Apply maps each action to exactly one backend call. Unknown action
// kinds yield a false result without touching the backend; a failed
// backend call aborts the batch. Processing stays sequential because an
// action may depend on a prior one in the same batch having committed.
func (s *actionServiceImpl) Apply(ctx context.Context, token string, actions []pocket.Action) (*pocket.SendResponse, error) {
	api := s.clients(token)

	results := make([]bool, 0, len(actions))
	overall := true
	for _, action := range actions {
		kind := metricAction(action.Action)
		ok, err := s.applyOne(ctx, api, action)
		if err != nil {
			metrics.ActionsAppliedTotal.WithLabelValues(kind, "error").Inc()
			return nil, err
		}
		if ok {
			metrics.ActionsAppliedTotal.WithLabelValues(kind, "ok").Inc()
		} else {
			metrics.ActionsAppliedTotal.WithLabelValues(kind, "unknown").Inc()
		}
		results = append(results, ok)
		overall = overall && ok
	}

	return &pocket.SendResponse{Status: overall, ActionResults: results}, nil
}

func (s *actionServiceImpl) applyOne(ctx context.Context, api readeck.API, action pocket.Action) (bool, error) {
	switch action.Action {
	case pocket.ActionArchive:
		return true, api.UpdateBookmark(ctx, action.ItemID, readeck.BookmarkPatch{IsArchived: boolPtr(true)})
	case pocket.ActionReadd:
		return true, api.UpdateBookmark(ctx, action.ItemID, readeck.BookmarkPatch{IsArchived: boolPtr(false)})
	case pocket.ActionFavorite:
		return true, api.UpdateBookmark(ctx, action.ItemID, readeck.BookmarkPatch{IsMarked: boolPtr(true)})
	case pocket.ActionUnfavorite:
		return true, api.UpdateBookmark(ctx, action.ItemID, readeck.BookmarkPatch{IsMarked: boolPtr(false)})
	case pocket.ActionDelete:
		return true, api.UpdateBookmark(ctx, action.ItemID, readeck.BookmarkPatch{IsDeleted: boolPtr(true)})
	case pocket.ActionAdd:
		return true, api.CreateBookmark(ctx, action.URL)
	default:
		return false, nil
	}
}

// metricAction keeps the action metric label bounded: every
// client-supplied kind outside the known set counts as "unknown".
func metricAction(kind string) string {
	switch kind {
	case pocket.ActionArchive, pocket.ActionReadd, pocket.ActionFavorite,
		pocket.ActionUnfavorite, pocket.ActionDelete, pocket.ActionAdd:
		return kind
	default:
		return "unknown"
	}
}

func boolPtr(v bool) *bool { return &v }
