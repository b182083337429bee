// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/wizard"
)

func pass(map[string]string) error { return nil }

/*
TestFlow_ForwardOnly verifies the index moves by one on success and never
moves on failure, on a wrong step, or backwards.
*/
func TestFlow_ForwardOnly(t *testing.T) {
	flow, err := wizard.New(wizard.KindRegister)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepRole, flow.Current())

	// 1. Successful step
	require.NoError(t, flow.Submit(wizard.StepRole, func(data map[string]string) error {
		data["accountType"] = "PERSONAL"
		return nil
	}))
	assert.Equal(t, 1, flow.Index)
	assert.Equal(t, "PERSONAL", flow.Get("accountType"))

	// 2. Failing check keeps index and data
	boom := errors.New("Phone number must be 9 digits (e.g. 90 123 45 67)")
	err = flow.Submit(wizard.StepPhone, func(data map[string]string) error {
		data["phone"] = "123"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, flow.Index)
	assert.Empty(t, flow.Get("phone"))

	// 3. Re-submitting an earlier step is rejected
	assert.ErrorIs(t, flow.Submit(wizard.StepRole, pass), wizard.ErrWrongStep)
	assert.Equal(t, 1, flow.Index)

	// 4. Skipping ahead is rejected
	assert.ErrorIs(t, flow.Submit(wizard.StepDetails, pass), wizard.ErrWrongStep)
	assert.Equal(t, 1, flow.Index)
}

/*
TestFlow_Terminal verifies the last step accepts no submissions.
*/
func TestFlow_Terminal(t *testing.T) {
	flow, err := wizard.New(wizard.KindPasswordReset)
	require.NoError(t, err)

	for _, step := range []string{wizard.StepPhone, wizard.StepVerification, wizard.StepReset} {
		require.NoError(t, flow.Submit(step, pass))
	}

	assert.True(t, flow.Finished())
	assert.Equal(t, wizard.StepDone, flow.Current())
	assert.ErrorIs(t, flow.Submit(wizard.StepDone, pass), wizard.ErrFinished)
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := wizard.New("checkout")
	assert.Error(t, err)
}

/*
TestStore_RoundTrip verifies persisted flows resume and cancel cleanly.
*/
func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	store := wizard.NewStore(storage)

	flow, _ := wizard.New(wizard.KindRegister)
	require.NoError(t, flow.Submit(wizard.StepRole, pass))
	require.NoError(t, store.Save(ctx, "client-a", flow))

	loaded, err := store.Load(ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, wizard.StepPhone, loaded.Current())

	other, err := store.Load(ctx, "client-a", wizard.KindPasswordReset)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, store.Delete(ctx, "client-a", wizard.KindRegister))
	loaded, err = store.Load(ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CorruptedFlowIsIgnored(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemory()
	require.NoError(t, storage.Set(ctx, "wizard:register:client-a", "[]"))

	loaded, err := wizard.NewStore(storage).Load(ctx, "client-a", wizard.KindRegister)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
