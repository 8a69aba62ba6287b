package validation

import "testing"

func TestValidateWebURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/path?q=1", false},
		{"HTTPS://EXAMPLE.COM", false},
		{"ftp://example.com", true},
		{"example.com", true},
		{"https://", true},
		{"javascript:alert(1)", true},
		{"://bad", true},
	}

	for _, tt := range tests {
		err := ValidateWebURL("originalUrl", tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateWebURL(%q) error = %v; wantErr %v", tt.raw, err, tt.wantErr)
		}
	}
}

func TestValidateAppURL(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"zuaiapp://zuai.co/", false},
		{"myapp://open?x=1", false},
		{"https://example.com/app", false},
		{"fb123://authorize", false},
		{"com.example.app://callback", false},
		{"intent://open#Intent;scheme=myapp;end", false},
		{"/relative/path", true},
		{"javascript:alert(1)", true},
		{"JavaScript:alert(1)", true},
		{"data:text/html,hi", true},
		{"vbscript:msgbox(1)", true},
		{"file:///etc/passwd", true},
		{"blob:https://example.com/550e8400-e29b-41d4-a716-446655440000", true},
		{"filesystem:https://example.com/temporary/x", true},
		{"about:blank", true},
		{"view-source:https://example.com", true},
		{" javascript:alert(1)", true},
	}

	for _, tt := range tests {
		err := ValidateAppURL("iosUrl", tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAppURL(%q) error = %v; wantErr %v", tt.raw, err, tt.wantErr)
		}
	}
}
