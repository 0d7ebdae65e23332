package notify_test

import (
	"testing"

	"github.com/dshills/narrator/internal/host"
	"github.com/dshills/narrator/internal/notify"
)

type delivery struct {
	text      string
	interrupt bool
	target    host.Target
}

type recorder struct {
	deliveries []delivery
}

func (r *recorder) sink() notify.SinkFunc {
	return func(text string, interrupt bool, target host.Target) {
		r.deliveries = append(r.deliveries, delivery{text, interrupt, target})
	}
}

func TestOutputDelivers(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, nil)

	ch.Output("muted")
	if len(rec.deliveries) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(rec.deliveries))
	}
	d := rec.deliveries[0]
	if d.text != "muted" || !d.interrupt {
		t.Errorf("delivery = %+v, want muted/interrupt", d)
	}
}

func TestOutputQueuedDoesNotInterrupt(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, nil)

	ch.OutputQueued("passing marker 2")
	if len(rec.deliveries) != 1 || rec.deliveries[0].interrupt {
		t.Fatalf("deliveries = %+v, want one non-interrupting", rec.deliveries)
	}
}

func TestEmptyMessageSkipped(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, nil)

	ch.Output("")
	if len(rec.deliveries) != 0 {
		t.Errorf("empty message was delivered: %+v", rec.deliveries)
	}
}

func TestRepeatPerturbation(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, nil)

	ch.Output("muted")
	ch.Output("muted")
	if len(rec.deliveries) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(rec.deliveries))
	}
	// The repeat is perturbed so downstream change detection still
	// fires.
	if got := rec.deliveries[1].text; got != "muted " {
		t.Errorf("second delivery = %q, want %q", got, "muted ")
	}

	// A third identical message differs from the perturbed form, so it
	// goes out unmodified.
	ch.Output("muted")
	if got := rec.deliveries[2].text; got != "muted" {
		t.Errorf("third delivery = %q, want %q", got, "muted")
	}
}

func TestRepeatOnNewTargetNotPerturbed(t *testing.T) {
	rec := &recorder{}
	target := host.Target("a")
	ch := notify.New(rec.sink(), func() host.Target { return target }, nil)

	ch.Output("muted")
	target = "b"
	ch.Output("muted")
	if got := rec.deliveries[1].text; got != "muted" {
		t.Errorf("delivery on new target = %q, want %q", got, "muted")
	}
}

func TestResetTarget(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, nil)

	ch.Output("muted")
	ch.ResetTarget()
	ch.Output("muted")
	if got := rec.deliveries[1].text; got != "muted" {
		t.Errorf("delivery after ResetTarget = %q, want %q", got, "muted")
	}
}

func TestMuteNext(t *testing.T) {
	rec := &recorder{}
	handling := true
	ch := notify.New(rec.sink(), nil, func() bool { return handling })

	ch.MuteNext()
	ch.Output("suppressed")
	if len(rec.deliveries) != 0 {
		t.Fatalf("muted message was delivered: %+v", rec.deliveries)
	}

	// The flag is consumed by the suppression.
	ch.Output("spoken")
	if len(rec.deliveries) != 1 || rec.deliveries[0].text != "spoken" {
		t.Errorf("deliveries = %+v, want one %q", rec.deliveries, "spoken")
	}
}

func TestMuteNextOutsideHandling(t *testing.T) {
	rec := &recorder{}
	ch := notify.New(rec.sink(), nil, func() bool { return false })

	// Outside command handling the flag does not apply and is not
	// consumed.
	ch.MuteNext()
	ch.Output("ambient")
	if len(rec.deliveries) != 1 || rec.deliveries[0].text != "ambient" {
		t.Fatalf("deliveries = %+v, want one %q", rec.deliveries, "ambient")
	}
}
