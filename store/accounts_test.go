package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/condo/models"
)

func TestCreateAccount_Resident(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acct := seedResident(t, s, "ana@example.com", "P1D1")
	assert.Equal(t, "ana", acct.Username)
	assert.Equal(t, models.RoleResident, acct.Role)

	_, err := s.ResidentUnit(ctx, acct.ID)
	require.NoError(t, err)

	byName, err := s.AccountByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, byName.ID)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	seedResident(t, s, "ana@example.com", "P1D1")

	in := models.RegisterInput{FirstName: "A", LastName: "B", Email: "ana@example.com", Password: "x", Role: "admin"}
	require.Empty(t, in.Validate())
	_, err := s.CreateAccount(context.Background(), in, "hash")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateAccount_OccupiedUnitRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")

	in := models.RegisterInput{FirstName: "Luis", LastName: "Mamani", Email: "luis@example.com", Password: "x",
		Role: "Residente", UnitNumber: "P1D1"}
	require.Empty(t, in.Validate())
	_, err := s.CreateAccount(ctx, in, "hash")
	require.ErrorIs(t, err, ErrUnitOccupied)

	_, err = s.AccountByLogin(ctx, "luis@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccount_Staff(t *testing.T) {
	s := newTestStore(t)
	in := models.RegisterInput{FirstName: "Rosa", LastName: "Choque", Email: "rosa@example.com", Password: "x", Role: "Personal"}
	require.Empty(t, in.Validate())

	acct, err := s.CreateAccount(context.Background(), in, "hash")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, acct.Role)

	_, err = s.ResidentUnit(context.Background(), acct.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
