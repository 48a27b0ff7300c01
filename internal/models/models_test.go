package models

import "testing"

func TestSyncReportAddAction(t *testing.T) {
	report := &SyncReport{}
	report.AddAction(SyncAction{Action: ActionAdd})
	report.AddAction(SyncAction{Action: ActionAdd})
	report.AddAction(SyncAction{Action: ActionRemove})
	report.AddAction(SyncAction{Action: ActionSkip})
	report.AddAction(SyncAction{Action: ActionError})

	if report.Added != 2 || report.Removed != 1 || report.Skipped != 1 || report.Errors != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 2/1/1/1",
			report.Added, report.Removed, report.Skipped, report.Errors)
	}
	if len(report.Actions) != 5 {
		t.Errorf("len(Actions) = %d, want 5", len(report.Actions))
	}
	if report.Success() {
		t.Error("expected Success() == false with errors present")
	}
}

func TestSyncReportExitCode(t *testing.T) {
	tests := []struct {
		name    string
		actions []SyncActionType
		want    int
	}{
		{"no actions", nil, 0},
		{"all succeed", []SyncActionType{ActionAdd, ActionSkip}, 0},
		{"partial failure", []SyncActionType{ActionAdd, ActionError}, 1},
		{"skip counts as success", []SyncActionType{ActionSkip, ActionError}, 1},
		{"remove counts as success", []SyncActionType{ActionRemove, ActionError}, 1},
		{"total failure", []SyncActionType{ActionError, ActionError}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &SyncReport{}
			for _, action := range tt.actions {
				report.AddAction(SyncAction{Action: action})
			}
			if got := report.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInputRecordDisplayName(t *testing.T) {
	record := InputRecord{Artist: "Radiohead", Album: "OK Computer"}
	if got := record.DisplayName(); got != "Radiohead - OK Computer" {
		t.Errorf("DisplayName() = %q", got)
	}
}
