package adb

import (
	"context"
	"reflect"
	"testing"

	"github.com/FluidXR/fetchdroid/internal/runner"
	"github.com/FluidXR/fetchdroid/internal/runner/runnertest"
)

func TestParseDevices(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "header only",
			output: "List of devices attached\n\n",
			want:   nil,
		},
		{
			name:   "two devices",
			output: "List of devices attached\nemulator-5554\tdevice\n192.168.1.20:5555\toffline\n",
			want:   []string{"emulator-5554", "192.168.1.20:5555"},
		},
		{
			name:   "first line dropped even when it looks like a device",
			output: "R58M123\tdevice\nABC\tdevice\n",
			want:   []string{"ABC"},
		},
		{
			name:   "lines without tab ignored",
			output: "List of devices attached\n* daemon started successfully\nXYZ\tunauthorized\n",
			want:   []string{"XYZ"},
		},
		{
			name:   "duplicates kept in order",
			output: "List of devices attached\nA\tdevice\nB\tdevice\nA\tdevice\n",
			want:   []string{"A", "B", "A"},
		},
		{
			name:   "empty identifier skipped",
			output: "List of devices attached\n\tdevice\n  \tdevice\nC\tdevice\r\n",
			want:   []string{"C"},
		},
		{
			name:   "empty output",
			output: "",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDevices(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseDevices = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDeviceList(t *testing.T) {
	output := `List of devices attached
* daemon not running; starting now at tcp:5037
R58M123ABC             device usb:1-1 product:beyond1lte model:SM_G973F device:beyond1 transport_id:1
192.168.1.20:5555      offline product:redfin model:Pixel_5 device:redfin transport_id:3
`
	got := parseDeviceList(output)
	want := []Device{
		{Serial: "R58M123ABC", State: "device", ConnType: USB, Model: "SM_G973F", Product: "beyond1lte", TransportID: "1"},
		{Serial: "192.168.1.20:5555", State: "offline", ConnType: WiFi, Model: "Pixel_5", Product: "redfin", TransportID: "3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseDeviceList:\ngot  %+v\nwant %+v", got, want)
	}
	if !got[0].IsOnline() || got[1].IsOnline() {
		t.Error("IsOnline mismatch")
	}
}

func TestDevicesPropagatesFailure(t *testing.T) {
	script := runnertest.New().OnFailure("adb devices", runner.SpawnFailure, "")
	c := NewClient("adb", script)

	if _, err := c.Devices(context.Background()); !runner.IsKind(err, runner.SpawnFailure) {
		t.Fatalf("Devices error = %v, want spawn failure", err)
	}
}

func TestShellBuildsCommandLine(t *testing.T) {
	script := runnertest.New().OnOutput("adb -s X shell getprop ro.product.model", "Pixel\n")
	c := NewClient("", script)

	res := c.Getprop(context.Background(), "X", "ro.product.model")
	if res.Text() != "Pixel" {
		t.Errorf("Getprop = %q, want Pixel", res.Text())
	}
}

func TestConnect(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"connected", "connected to 192.168.1.20:5555\n", false},
		{"already connected", "already connected to 192.168.1.20:5555\n", false},
		{"refused", "cannot connect to 192.168.1.20:5555: Connection refused\n", true},
		{"garbage", "failed to resolve host\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := runnertest.New().OnOutput("adb connect 192.168.1.20:5555", tt.output)
			err := NewClient("adb", script).Connect(context.Background(), "192.168.1.20:5555")
			if (err != nil) != tt.wantErr {
				t.Errorf("Connect error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
