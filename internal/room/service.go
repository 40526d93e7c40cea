package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakshamg567/sketchy/backend/logger"
	"github.com/sakshamg567/sketchy/backend/pkg/utils"
)

// JoinResult describes the roster after a join.
type JoinResult struct {
	RoomID        string
	Players       []string
	AlreadyJoined bool
}

// Round is what StartGame hands back to the caller.
type Round struct {
	Word          string `json:"word"`
	CurrentDrawer string `json:"currentDrawer"`
}

// Service implements the room lifecycle on top of a Store. It keeps no room
// state of its own, so any process sharing the store can serve any room.
type Service struct {
	store Store
	words []string
	newID func() string
}

func NewService(store Store, words []string) *Service {
	if len(words) == 0 {
		words = utils.DefaultWords
	}
	return &Service{
		store: store,
		words: words,
		newID: utils.GenRoomID,
	}
}

func (s *Service) CreateRoom(ctx context.Context) (string, error) {
	id := s.newID()
	if err := s.store.Create(ctx, newRecord(id)); err != nil {
		logger.Error("CreateRoom: room=%s err=%v", id, err)
		return "", err
	}
	logger.Info("CreateRoom: room=%s created", id)
	return id, nil
}

func (s *Service) JoinRoom(ctx context.Context, roomID, playerName string) (JoinResult, error) {
	if roomID == "" || playerName == "" {
		return JoinResult{}, fmt.Errorf("%w: roomId and playerName are required", ErrMissingField)
	}

	var already bool
	rec, err := s.store.Update(ctx, roomID, func(rec *Record) error {
		already = rec.hasPlayer(playerName)
		if already {
			return ErrSkipWrite
		}
		rec.Players = append(rec.Players, playerName)
		if len(rec.Players) == 1 {
			rec.CurrentDrawer = playerName
		}
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}

	if already {
		logger.Debug("JoinRoom: room=%s player=%s already present", roomID, playerName)
	} else {
		logger.Info("JoinRoom: room=%s player=%s joined (players=%d)", roomID, playerName, len(rec.Players))
	}

	return JoinResult{
		RoomID:        roomID,
		Players:       rec.Players,
		AlreadyJoined: already,
	}, nil
}

// StartGame draws a word and hands the first seat the pencil. Calling it on
// a room that is already in progress draws a fresh word.
func (s *Service) StartGame(ctx context.Context, roomID string) (Round, error) {
	if roomID == "" {
		return Round{}, fmt.Errorf("%w: roomId is required", ErrMissingField)
	}

	rec, err := s.store.Update(ctx, roomID, func(rec *Record) error {
		if len(rec.Players) < 2 {
			return fmt.Errorf("%w: room %s has %d player(s)", ErrInsufficientPlayers, roomID, len(rec.Players))
		}
		word, err := utils.GetRandomWord(s.words)
		if err != nil {
			return err
		}
		rec.Word = word
		rec.CurrentDrawer = rec.Players[0]
		rec.Status = StatusInProgress
		return nil
	})
	if err != nil {
		return Round{}, err
	}

	logger.Info("StartGame: room=%s drawer=%s", roomID, rec.CurrentDrawer)
	return Round{Word: rec.Word, CurrentDrawer: rec.CurrentDrawer}, nil
}

// EvaluateGuess reports whether guess matches the room's word, ignoring case.
// A missing room or a room that is not in progress never matches.
func (s *Service) EvaluateGuess(ctx context.Context, roomID, guess string) (bool, error) {
	rec, err := s.store.Get(ctx, roomID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if rec.Status != StatusInProgress || rec.Word == "" {
		return false, nil
	}
	return strings.EqualFold(guess, rec.Word), nil
}

func (s *Service) GetRoom(ctx context.Context, roomID string) (Record, error) {
	if roomID == "" {
		return Record{}, fmt.Errorf("%w: roomId is required", ErrMissingField)
	}
	return s.store.Get(ctx, roomID)
}
