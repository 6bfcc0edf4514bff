package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"easel/internal/registry/models"
	"easel/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) appendAttribute(id int, name string) {
	attribute, err := models.NewAttribute(id, name, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.AppendAttribute(s.ctx, attribute))
}

func (s *MemoryStoreSuite) TestAttributes() {
	s.Run("append assigns dense positions", func() {
		s.appendAttribute(0, "Background")
		s.appendAttribute(1, "Eyes")

		count, err := s.store.AttributeCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, count)

		attribute, err := s.store.FindAttribute(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal("Eyes", attribute.Name)
	})

	s.Run("append out of sequence is rejected", func() {
		attribute, err := models.NewAttribute(5, "Mouth", time.Now())
		s.Require().NoError(err)
		s.ErrorIs(s.store.AppendAttribute(s.ctx, attribute), sentinel.ErrInvalidState)
	})

	s.Run("find beyond the range reports not found", func() {
		_, err := s.store.FindAttribute(s.ctx, 2)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindAttribute(s.ctx, -1)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("list returns a copy", func() {
		attributes, err := s.store.ListAttributes(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(attributes, 2)
		attributes[0] = nil

		again, err := s.store.ListAttributes(s.ctx)
		s.Require().NoError(err)
		s.NotNil(again[0])
	})
}

func (s *MemoryStoreSuite) TestTraits() {
	s.appendAttribute(0, "Background")

	newTrait := func(id int, name string) *models.Trait {
		trait, err := models.NewTrait(0, id, name, models.RarityCommon)
		s.Require().NoError(err)
		return trait
	}

	s.Run("append continues the 1-based sequence", func() {
		s.Require().NoError(s.store.AppendTrait(s.ctx, newTrait(1, "Forest")))
		s.Require().NoError(s.store.AppendTrait(s.ctx, newTrait(2, "Desert")))

		count, err := s.store.TraitCount(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal(2, count)
	})

	s.Run("append with a gap is rejected", func() {
		s.ErrorIs(s.store.AppendTrait(s.ctx, newTrait(4, "Ocean")), sentinel.ErrInvalidState)
	})

	s.Run("append with a duplicate id is rejected", func() {
		s.ErrorIs(s.store.AppendTrait(s.ctx, newTrait(2, "Swamp")), sentinel.ErrInvalidState)
	})

	s.Run("append for an unknown attribute is rejected", func() {
		trait, err := models.NewTrait(3, 1, "Forest", models.RarityCommon)
		s.Require().NoError(err)
		s.ErrorIs(s.store.AppendTrait(s.ctx, trait), sentinel.ErrNotFound)
	})

	s.Run("trait count for an unknown attribute reports not found", func() {
		_, err := s.store.TraitCount(s.ctx, 3)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestCIDs() {
	s.appendAttribute(0, "Background")

	s.Run("current cid before any append reports not found", func() {
		_, err := s.store.CurrentCID(s.ctx, 0)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("history preserves append order and current is the last entry", func() {
		s.Require().NoError(s.store.AppendCID(s.ctx, 0, "cid-one"))
		s.Require().NoError(s.store.AppendCID(s.ctx, 0, "cid-two"))

		history, err := s.store.CIDHistory(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal([]string{"cid-one", "cid-two"}, history)

		current, err := s.store.CurrentCID(s.ctx, 0)
		s.Require().NoError(err)
		s.Equal("cid-two", current)
	})

	s.Run("unknown attribute reports not found", func() {
		s.ErrorIs(s.store.AppendCID(s.ctx, 9, "cid-x"), sentinel.ErrNotFound)
		_, err := s.store.CIDHistory(s.ctx, 9)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestScripts() {
	s.Require().NoError(s.store.AppendScript(s.ctx, "generator-v1"))
	s.Require().NoError(s.store.AppendScript(s.ctx, "generator-v2"))

	scripts, err := s.store.ListScripts(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"generator-v1", "generator-v2"}, scripts)
}

func (s *MemoryStoreSuite) TestRunInTx() {
	tx := NewTx(s.store)

	s.Run("commit keeps all writes", func() {
		err := tx.RunInTx(s.ctx, func(ctx context.Context) error {
			attribute, err := models.NewAttribute(0, "Background", time.Now())
			if err != nil {
				return err
			}
			if err := s.store.AppendAttribute(ctx, attribute); err != nil {
				return err
			}
			return s.store.AppendCID(ctx, 0, "cid-one")
		})
		s.Require().NoError(err)

		count, err := s.store.AttributeCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, count)
	})

	s.Run("error restores the pre-transaction state", func() {
		boom := errors.New("boom")
		err := tx.RunInTx(s.ctx, func(ctx context.Context) error {
			attribute, attrErr := models.NewAttribute(1, "Eyes", time.Now())
			if attrErr != nil {
				return attrErr
			}
			if appendErr := s.store.AppendAttribute(ctx, attribute); appendErr != nil {
				return appendErr
			}
			if cidErr := s.store.AppendCID(ctx, 1, "cid-two"); cidErr != nil {
				return cidErr
			}
			return boom
		})
		s.Require().ErrorIs(err, boom)

		count, err := s.store.AttributeCount(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, count, "partial writes must be rolled back")

		_, err = s.store.CIDHistory(s.ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
