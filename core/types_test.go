package core

import (
	"context"
	"testing"
)

func TestValidActionsOrder(t *testing.T) {
	actions := ValidActions()
	expected := []Action{ActionNone, ActionForward, ActionLeft, ActionRight}
	for i, a := range expected {
		if actions[i] != a {
			t.Fatalf("expected %s at %d, got %s", a, i, actions[i])
		}
	}
	actions[0] = ActionRight
	if ValidActions()[0] != ActionNone {
		t.Fatalf("expected ValidActions to return a copy")
	}
	if Action(4).Valid() || Action(-1).Valid() {
		t.Fatalf("expected out of range actions to be invalid")
	}
}

func TestHeadingTurns(t *testing.T) {
	turns := []struct {
		from, left, right Heading
	}{
		{East, North, South},
		{South, East, West},
		{West, South, North},
		{North, West, East},
	}
	for _, turn := range turns {
		if turn.from.Left() != turn.left {
			t.Errorf("left of %v: expected %v, got %v", turn.from, turn.left, turn.from.Left())
		}
		if turn.from.Right() != turn.right {
			t.Errorf("right of %v: expected %v, got %v", turn.from, turn.right, turn.from.Right())
		}
	}
}

func TestWaypoint(t *testing.T) {
	if !Arrived.IsArrived() || Arrived.Action() != ActionNone || Arrived.String() != "arrived" {
		t.Fatalf("unexpected arrived waypoint %s", Arrived)
	}
	w := WaypointTo(ActionLeft)
	if w.IsArrived() || w.Action() != ActionLeft {
		t.Fatalf("unexpected waypoint %s", w)
	}
	if WaypointTo(ActionNone) == Arrived {
		t.Fatalf("expected idling and arrival to differ")
	}
}

func TestTrialContextOutcome(t *testing.T) {
	tCtx := NewTrialContext(context.Background())
	tCtx.Error(ErrDeadlineExceeded)
	if tCtx.IsError() {
		t.Fatalf("expected a missed deadline not to count as an error")
	}
	tCtx.Reached()
	if !tCtx.IsSuccess() {
		t.Fatalf("expected success")
	}
	if tCtx.Trace.Last() != nil || tCtx.Trace.TotalReward() != 0 {
		t.Fatalf("expected an empty trace")
	}
}

func TestLightString(t *testing.T) {
	if LightRed.String() != "red" || LightGreen.String() != "green" {
		t.Fatalf("unexpected names %s %s", LightRed, LightGreen)
	}
	if Light(5).String() != "light(5)" {
		t.Fatalf("expected a numbered fallback, got %s", Light(5))
	}
}
