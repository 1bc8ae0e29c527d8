package wire

import "testing"

func TestDescriptorValidate(t *testing.T) {
	t.Parallel()

	base := func() Descriptor {
		return Descriptor{
			ID:          "op-1",
			ParentID:    "op-0",
			Name:        "com.example.CalcTest",
			DisplayName: "Test class com.example.CalcTest",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Descriptor)
		shouldErr bool
	}{
		{
			name:   "valid with parent",
			mutate: func(*Descriptor) {},
		},
		{
			name:   "valid without parent",
			mutate: func(d *Descriptor) { d.ParentID = "" },
		},
		{
			name:      "missing id",
			mutate:    func(d *Descriptor) { d.ID = "" },
			shouldErr: true,
		},
		{
			name:      "self parent",
			mutate:    func(d *Descriptor) { d.ParentID = d.ID },
			shouldErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := base()
			tc.mutate(&d)
			err := d.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestResultValidate(t *testing.T) {
	t.Parallel()

	base := func() Result {
		return Result{Type: ResultSuccessful, StartTimeMS: 10, EndTimeMS: 20}
	}

	tests := []struct {
		name      string
		mutate    func(*Result)
		shouldErr bool
	}{
		{
			name:   "successful",
			mutate: func(*Result) {},
		},
		{
			name:   "failed with failure tree",
			mutate: func(r *Result) { r.Type = ResultFailed; r.Failures = []*Failure{{Message: "boom"}} },
		},
		{
			name: "unrecognized type tag still carries",
			mutate: func(r *Result) {
				r.Type = "FLAKY"
			},
		},
		{
			name:      "missing type",
			mutate:    func(r *Result) { r.Type = "" },
			shouldErr: true,
		},
		{
			name:      "negative start time",
			mutate:    func(r *Result) { r.StartTimeMS = -1 },
			shouldErr: true,
		},
		{
			name:      "negative end time",
			mutate:    func(r *Result) { r.EndTimeMS = -5 },
			shouldErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := base()
			tc.mutate(&r)
			err := r.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	started := TestStarted{
		EventTimeMS: 1,
		DisplayName: "t",
		Descriptor:  Descriptor{ID: "op-1"},
	}
	if err := started.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	started.EventTimeMS = -1
	if err := started.Validate(); err == nil {
		t.Fatalf("expected negative event time to be rejected")
	}

	finished := TestFinished{
		EventTimeMS: 2,
		DisplayName: "t",
		Descriptor:  Descriptor{ID: "op-1"},
		Result:      Result{Type: ResultSkipped, StartTimeMS: 1, EndTimeMS: 2},
	}
	if err := finished.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	finished.Descriptor.ID = ""
	if err := finished.Validate(); err == nil {
		t.Fatalf("expected descriptor error to surface through event validation")
	}
}
