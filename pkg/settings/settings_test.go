package settings

import "testing"

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	want := Run{ExitOnError: true}
	if *got != want {
		t.Errorf("NewCliParams() = %+v, want %+v", *got, want)
	}
	if NewCliParams() == got {
		t.Error("NewCliParams should return a fresh value on every call")
	}
}

func TestVersionInformationDefaults(t *testing.T) {
	if VersionInformation.BuildVersion == "" || VersionInformation.Commit == "" {
		t.Errorf("VersionInformation should have defaults, got %+v", VersionInformation)
	}
	if CliBinaryName != "keytips" {
		t.Errorf("CliBinaryName = %q, want %q", CliBinaryName, "keytips")
	}
}
