package pixel

import "testing"

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name    string
		f       Format
		wantErr bool
	}{
		{"int8", Int8, false},
		{"int1", Format{KindInt, 1}, false},
		{"int16", Int16, false},
		{"int0", Format{KindInt, 0}, true},
		{"int17", Format{KindInt, 17}, true},
		{"half", Float16, false},
		{"float32", Float32, false},
		{"float64", Format{KindFloat, 64}, true},
		{"bad kind", Format{Kind(7), 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatBytesPerSample(t *testing.T) {
	tests := []struct {
		f    Format
		want int
	}{
		{Format{KindInt, 1}, 1},
		{Int8, 1},
		{Format{KindInt, 9}, 2},
		{Int16, 2},
		{Float16, 2},
		{Float32, 4},
	}
	for _, tt := range tests {
		if got := tt.f.BytesPerSample(); got != tt.want {
			t.Errorf("%v.BytesPerSample() = %d, want %d", tt.f, got, tt.want)
		}
	}

	if got := Int10.RowBytes(7); got != 14 {
		t.Errorf("Int10.RowBytes(7) = %d, want 14", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"int8", Int8},
		{"INT10", Int10},
		{" int16 ", Int16},
		{"half", Float16},
		{"float16", Float16},
		{"float", Float32},
		{"float32", Float32},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "int", "int32", "uint8", "float8", "intx"} {
		if _, err := ParseFormat(bad); err == nil {
			t.Errorf("ParseFormat(%q) should fail", bad)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := Int12.String(); got != "int12" {
		t.Errorf("Int12.String() = %q", got)
	}
	if got := Float16.String(); got != "float16" {
		t.Errorf("Float16.String() = %q", got)
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}

func TestColorFamily(t *testing.T) {
	if FamilyGray.PlaneCount() != 1 || FamilyYUV.PlaneCount() != 3 || FamilyRGB.PlaneCount() != 3 {
		t.Error("unexpected plane counts")
	}
	if FamilyYUV.IsChroma(0) || !FamilyYUV.IsChroma(1) || !FamilyYUV.IsChroma(2) {
		t.Error("YUV chroma planes are 1 and 2")
	}
	if FamilyRGB.IsChroma(1) {
		t.Error("RGB has no chroma planes")
	}
	if !FamilyRGB.DefaultFullRange() || FamilyYUV.DefaultFullRange() {
		t.Error("unexpected default range flags")
	}
	if ColorFamily(5).Valid() {
		t.Error("ColorFamily(5) should be invalid")
	}
}

func TestParseColorFamily(t *testing.T) {
	tests := []struct {
		in   string
		want ColorFamily
	}{
		{"gray", FamilyGray},
		{"Grey", FamilyGray},
		{"yuv", FamilyYUV},
		{" RGB", FamilyRGB},
	}
	for _, tt := range tests {
		got, err := ParseColorFamily(tt.in)
		if err != nil {
			t.Fatalf("ParseColorFamily(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColorFamily(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseColorFamily("cmyk"); err == nil {
		t.Error("ParseColorFamily(cmyk) should fail")
	}
}
