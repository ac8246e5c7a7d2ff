package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/midiin/internal/logger"
	"github.com/leandrodaf/midiin/sdk/contracts"
	"github.com/leandrodaf/midiin/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	port, err := midi.NewInPort(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithPortConfig(contracts.PortConfig{
			ClientName: "midiin example",
			PortName:   "midiin example input",
		}),
	)
	if err != nil {
		log.Error("failed to initialize MIDI input port", log.Field().Error("error", err))
		return
	}
	defer port.Close()

	devices, err := port.ListDevices()
	if err != nil {
		log.Error("failed to list MIDI devices", log.Field().Error("error", err))
		return
	}
	if len(devices) == 0 {
		fmt.Println("No MIDI input devices found.")
		return
	}
	for _, d := range devices {
		fmt.Printf("  [%s] %s\n", d.ID, d.Name)
	}

	port.OnDevicesChanged(func() {
		fmt.Println("MIDI device list changed")
	})

	port.OnEvents(func(events []contracts.Event) {
		for _, e := range events {
			log.Info("MIDI event",
				log.Field().Uint64("timestamp", e.Timestamp),
				log.Field().Uint8("command", byte(e.Command())),
				log.Field().Uint8("channel", e.Channel()),
				log.Field().Uint8("note", e.Note()),
				log.Field().Uint8("velocity", e.Velocity()),
			)
		}
	})

	if err := port.Connect(devices[0].ID); err != nil {
		log.Error("failed to connect MIDI device", log.Field().Error("error", err))
		return
	}
	fmt.Printf("Connected to device %s. Press Ctrl+C to exit.\n", port.DeviceID())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	if err := port.Disconnect(); err != nil {
		log.Error("failed to disconnect", log.Field().Error("error", err))
	}
}
