//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"easel/internal/registry/models"
	"easel/internal/registry/store/postgres"
	"easel/pkg/platform/sentinel"
	"easel/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	store     *postgres.Store
	db        *sql.DB
	tx        *postgres.Tx
	ctx       context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.container = containers.NewPostgresContainer(s.T())

	store, db, err := postgres.Open(s.container.DSN)
	s.Require().NoError(err)
	s.store = store
	s.db = db
	s.tx = postgres.NewTx(db)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.container.TruncateTables(s.ctx,
		"traits", "cid_history", "generation_scripts", "attributes")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) appendAttribute(id int, name string) {
	attribute, err := models.NewAttribute(id, name, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.AppendAttribute(s.ctx, attribute))
}

func (s *PostgresStoreSuite) TestAttributes() {
	s.appendAttribute(0, "Background")
	s.appendAttribute(1, "Eyes")

	count, err := s.store.AttributeCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	attribute, err := s.store.FindAttribute(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Eyes", attribute.Name)

	attributes, err := s.store.ListAttributes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(attributes, 2)
	s.Equal(0, attributes[0].ID)
	s.Equal(1, attributes[1].ID)

	_, err = s.store.FindAttribute(s.ctx, 2)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestAttributeAppendGuardsDensity() {
	s.appendAttribute(0, "Background")

	attribute, err := models.NewAttribute(5, "Mouth", time.Now().UTC())
	s.Require().NoError(err)
	s.ErrorIs(s.store.AppendAttribute(s.ctx, attribute), sentinel.ErrInvalidState)

	count, err := s.store.AttributeCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestTraits() {
	s.appendAttribute(0, "Background")

	newTrait := func(id int, name string, rarity models.Rarity) *models.Trait {
		trait, err := models.NewTrait(0, id, name, rarity)
		s.Require().NoError(err)
		return trait
	}

	s.Require().NoError(s.store.AppendTrait(s.ctx, newTrait(1, "Forest", models.RarityCommon)))
	s.Require().NoError(s.store.AppendTrait(s.ctx, newTrait(2, "Desert", models.RarityRare)))

	count, err := s.store.TraitCount(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(2, count)

	traits, err := s.store.ListTraits(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(traits, 2)
	s.Equal("Forest", traits[0].Name)
	s.Equal(models.RarityRare, traits[1].Rarity)

	s.ErrorIs(s.store.AppendTrait(s.ctx, newTrait(5, "Ocean", models.RarityEpic)), sentinel.ErrInvalidState)
	s.ErrorIs(s.store.AppendTrait(s.ctx, newTrait(2, "Swamp", models.RarityEpic)), sentinel.ErrInvalidState)
}

func (s *PostgresStoreSuite) TestCIDs() {
	s.appendAttribute(0, "Background")

	_, err := s.store.CurrentCID(s.ctx, 0)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.AppendCID(s.ctx, 0, "cid-one"))
	s.Require().NoError(s.store.AppendCID(s.ctx, 0, "cid-two"))

	history, err := s.store.CIDHistory(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal([]string{"cid-one", "cid-two"}, history)

	current, err := s.store.CurrentCID(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal("cid-two", current)
}

func (s *PostgresStoreSuite) TestScripts() {
	s.Require().NoError(s.store.AppendScript(s.ctx, "generator-v1"))
	s.Require().NoError(s.store.AppendScript(s.ctx, "generator-v2"))

	scripts, err := s.store.ListScripts(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"generator-v1", "generator-v2"}, scripts)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	boom := errors.New("boom")

	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		attribute, attrErr := models.NewAttribute(0, "Background", time.Now().UTC())
		if attrErr != nil {
			return attrErr
		}
		if appendErr := s.store.AppendAttribute(ctx, attribute); appendErr != nil {
			return appendErr
		}
		if cidErr := s.store.AppendCID(ctx, 0, "cid-one"); cidErr != nil {
			return cidErr
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	count, err := s.store.AttributeCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count, "rolled-back transaction must persist nothing")
}

func (s *PostgresStoreSuite) TestRunInTxCommits() {
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		attribute, attrErr := models.NewAttribute(0, "Background", time.Now().UTC())
		if attrErr != nil {
			return attrErr
		}
		if appendErr := s.store.AppendAttribute(ctx, attribute); appendErr != nil {
			return appendErr
		}
		trait, traitErr := models.NewTrait(0, 1, "Forest", models.RarityCommon)
		if traitErr != nil {
			return traitErr
		}
		return s.store.AppendTrait(ctx, trait)
	})
	s.Require().NoError(err)

	traits, err := s.store.ListTraits(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(traits, 1)
}
