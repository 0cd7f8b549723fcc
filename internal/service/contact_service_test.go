package service

import (
	"context"
	"testing"

	"contact_keeper/internal/model"
	"contact_keeper/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactService_Create_DefaultsType(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())

	c, err := svc.Create(context.Background(), "u-1", model.CreateContactRequest{Name: "Peppa Pig"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, model.ContactTypePersonal, c.Type)
	assert.Empty(t, c.Email)
	assert.Empty(t, c.Phone)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestContactService_Create_Validation(t *testing.T) {
	repo := repository.NewMemoryContactRepository()
	svc := NewContactService(repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      model.CreateContactRequest
		wantMsgs []string
	}{
		{"empty name", model.CreateContactRequest{Name: ""}, []string{MsgNameRequired}},
		{"blank name", model.CreateContactRequest{Name: "   "}, []string{MsgNameRequired}},
		{"bad type", model.CreateContactRequest{Name: "Peppa", Type: "family"}, []string{MsgInvalidType}},
		{"both", model.CreateContactRequest{Type: "family"}, []string{MsgNameRequired, MsgInvalidType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u-1", tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			var msgs []string
			for _, fe := range verr.Errors {
				msgs = append(msgs, fe.Message)
			}
			assert.Equal(t, tt.wantMsgs, msgs)
		})
	}

	list, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, list, "nothing is persisted on validation failure")
}

func TestContactService_List_NewestFirst(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	for _, name := range []string{"Mickey Mouse", "Donald Duck", "Minnie Mouse"} {
		_, err := svc.Create(ctx, "u-1", model.CreateContactRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u-2", model.CreateContactRequest{Name: "Goofy"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Minnie Mouse", list[0].Name)
	assert.Equal(t, "Mickey Mouse", list[2].Name)
}

func TestContactService_Update_Partial(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "u-1", model.CreateContactRequest{
		Name: "Peppa Pig", Email: "peppa@gmail.com", Phone: "111", Type: "personal",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u-1", c.ID, model.UpdateContactRequest{Phone: strPtr("222")})
	require.NoError(t, err)
	assert.Equal(t, "Peppa Pig", updated.Name)
	assert.Equal(t, "peppa@gmail.com", updated.Email)
	assert.Equal(t, "222", updated.Phone)
	assert.Equal(t, "personal", updated.Type)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))

	list, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "222", list[0].Phone)
}

func TestContactService_Update_Validation(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "u-1", model.CreateContactRequest{Name: "Peppa Pig"})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.Update(ctx, "u-1", c.ID, model.UpdateContactRequest{Type: strPtr("family")})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, "u-1", c.ID, model.UpdateContactRequest{Name: strPtr("")})
	assert.ErrorAs(t, err, &verr)
}

func TestContactService_Ownership(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "owner", model.CreateContactRequest{Name: "Peppa Pig"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", c.ID, model.UpdateContactRequest{Name: strPtr("George Pig")})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, "intruder", c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Peppa Pig", list[0].Name, "contact unchanged after forbidden calls")
}

func TestContactService_Update_OwnershipBeforeValidation(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "owner", model.CreateContactRequest{Name: "Peppa Pig"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", c.ID, model.UpdateContactRequest{Name: strPtr(""), Type: strPtr("family")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, "owner", "missing", model.UpdateContactRequest{Type: strPtr("family")})
	assert.ErrorIs(t, err, ErrContactNotFound)

	assert.ErrorIs(t, svc.CheckOwner(ctx, "intruder", c.ID), ErrForbidden)
	assert.ErrorIs(t, svc.CheckOwner(ctx, "owner", "missing"), ErrContactNotFound)
	assert.NoError(t, svc.CheckOwner(ctx, "owner", c.ID))
}

func TestContactService_NotFound(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	_, err := svc.Update(ctx, "u-1", "missing", model.UpdateContactRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrContactNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "u-1", "missing"), ErrContactNotFound)
}

func TestContactService_Delete(t *testing.T) {
	svc := NewContactService(repository.NewMemoryContactRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "u-1", model.CreateContactRequest{Name: "Peppa Pig"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u-1", c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "u-1", c.ID), ErrContactNotFound)

	list, err := svc.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
