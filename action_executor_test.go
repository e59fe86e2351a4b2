package main

import (
	"reflect"
	"testing"
)

// recordingActions records every InputActions call by name
type recordingActions struct {
	calls   []string
	gallery bool
}

func (r *recordingActions) rec(name string)           { r.calls = append(r.calls, name) }
func (r *recordingActions) Exit()                     { r.rec("Exit") }
func (r *recordingActions) ToggleHelp()               { r.rec("ToggleHelp") }
func (r *recordingActions) ToggleInfo()               { r.rec("ToggleInfo") }
func (r *recordingActions) ToggleFullscreen()         { r.rec("ToggleFullscreen") }
func (r *recordingActions) OpenSelected()             { r.rec("OpenSelected") }
func (r *recordingActions) ScrollUp()                 { r.rec("ScrollUp") }
func (r *recordingActions) ScrollDown()               { r.rec("ScrollDown") }
func (r *recordingActions) NavigateNext()             { r.rec("NavigateNext") }
func (r *recordingActions) NavigatePrevious()         { r.rec("NavigatePrevious") }
func (r *recordingActions) JumpFirst()                { r.rec("JumpFirst") }
func (r *recordingActions) JumpLast()                 { r.rec("JumpLast") }
func (r *recordingActions) Dismiss()                  { r.rec("Dismiss") }
func (r *recordingActions) ToggleSingleTapDismiss()   { r.rec("ToggleSingleTapDismiss") }
func (r *recordingActions) ZoomIn()                   { r.rec("ZoomIn") }
func (r *recordingActions) ZoomOut()                  { r.rec("ZoomOut") }
func (r *recordingActions) ZoomReset()                { r.rec("ZoomReset") }
func (r *recordingActions) ShowOverlayMessage(string) { r.rec("ShowOverlayMessage") }
func (r *recordingActions) GetTotalPagesCount() int   { return 10 }
func (r *recordingActions) IsGalleryOpen() bool       { return r.gallery }
func (r *recordingActions) IsShowingHelp() bool       { return false }

func TestExecuteAction(t *testing.T) {
	tests := []struct {
		action  string
		gallery bool
		known   bool
		calls   []string
	}{
		{"exit", false, true, []string{"Exit"}},
		{"next", false, true, []string{"NavigateNext"}},
		{"next", true, true, []string{"NavigateNext"}},
		{"open", false, true, []string{"OpenSelected"}},
		{"open", true, true, nil},
		{"dismiss", true, true, []string{"Dismiss"}},
		{"dismiss", false, true, nil},
		{"zoom_in", true, true, []string{"ZoomIn"}},
		{"zoom_reset", false, true, nil},
		{"toggle_single_tap_dismiss", false, true, []string{"ToggleSingleTapDismiss"}},
		{"levitate", false, false, nil},
	}

	for _, tt := range tests {
		name := tt.action
		if tt.gallery {
			name += " in gallery"
		}
		t.Run(name, func(t *testing.T) {
			r := &recordingActions{gallery: tt.gallery}
			if got := globalActionExecutor.ExecuteAction(tt.action, r, r); got != tt.known {
				t.Errorf("ExecuteAction(%q) = %v, want %v", tt.action, got, tt.known)
			}
			if !reflect.DeepEqual(r.calls, tt.calls) {
				t.Errorf("calls = %v, want %v", r.calls, tt.calls)
			}
		})
	}
}

func TestEveryDefinedActionExecutes(t *testing.T) {
	for _, a := range actionDefinitions {
		r := &recordingActions{gallery: true}
		if !globalActionExecutor.ExecuteAction(a.Name, r, r) {
			t.Errorf("action %q is defined but not executed", a.Name)
		}
		if !isKnownAction(a.Name) {
			t.Errorf("isKnownAction(%q) = false", a.Name)
		}
	}
	if isKnownAction("levitate") {
		t.Error("isKnownAction must reject unknown names")
	}
}
