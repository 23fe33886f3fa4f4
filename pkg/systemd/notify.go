// Package systemd implements the sd_notify protocol for `elblog tail`
// running as a Type=notify-reload service.
package systemd

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

var ErrUnsupportedSocket = errors.New("unsupported socket type")

func NotifyReady() error {
	return Notify("READY=1")
}

func MustNotifyReady() {
	if err := NotifyReady(); err != nil {
		panic(err)
	}
}

func getMonoTime() (uint64, error) {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	if err != nil {
		return 0, err
	}
	return uint64(ts.Sec)*1e6 + uint64(ts.Nsec)/1e3, nil
}

func NotifyReloading() error {
	microsecs, err := getMonoTime()
	if err != nil {
		return err
	}
	return Notify(fmt.Sprintf("RELOADING=1\nRELOAD_TIMESTAMP=%d", microsecs))
}

func MustNotifyReloading() {
	if err := NotifyReloading(); err != nil {
		panic(err)
	}
}

func NotifyStopping() error {
	return Notify("STOPPING=1")
}

// NotifyStatus sets the one-line status shown by `systemctl status`.
func NotifyStatus(format string, v ...any) error {
	return Notify("STATUS=" + fmt.Sprintf(format, v...))
}

// socketAddr resolves $NOTIFY_SOCKET; an empty name means we are not
// supervised.
func socketAddr() (string, error) {
	name := os.Getenv("NOTIFY_SOCKET")
	if name == "" {
		return "", nil
	}
	switch name[0] {
	case '/':
		return name, nil
	case '@':
		// abstract namespace
		return "\x00" + name[1:], nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSocket, name)
}

func Notify(message string) error {
	if len(message) == 0 {
		return errors.New("requires a message")
	}
	name, err := socketAddr()
	if err != nil || name == "" {
		return err
	}

	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: name, Net: "unixgram"})
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write([]byte(message))
	return err
}
