package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []string
	d.Subscribe(EventBillCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.BillID)
		return errors.New("boom")
	})
	d.Subscribe(EventBillCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.BillID)
		return nil
	})
	d.Subscribe(EventBillPaymentStatusChanged, func(context.Context, Event) error {
		t.Fatal("unrelated handler must not run")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBillCreated, BillID: "b1"})
	require.NoError(t, err)
	require.Equal(t, []string{"first:b1", "second:b1"}, got)
}

func TestDispatcherSurvivesHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	delivered := false
	d.Subscribe(EventBillPaymentStatusChanged, func(context.Context, Event) error {
		panic("handler bug")
	})
	d.Subscribe(EventBillPaymentStatusChanged, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	require.NotPanics(t, func() {
		require.NoError(t, d.Publish(context.Background(), Event{Type: EventBillPaymentStatusChanged}))
	})
	require.True(t, delivered)
}
