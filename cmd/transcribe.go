package cmd

import (
	"fmt"

	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/spf13/cobra"
)

var transcribeSend bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>...",
	Short: "Turn recorded audio into chat input",
	Long: `Upload one or more recorded audio files for transcription.

Recognized text is printed, and with --send each segment is relayed to the
assistant as a chat message. Files are processed in order; the session stops
after repeated transcription failures.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		source := internal.NewFileSource(args...)
		capture := internal.NewFileCapture(source, ctrl.API(), ctrl.Config.MinCaptureDuration)
		defer capture.Stop()

		if err := capture.Start(cmd.Context()); err != nil {
			return err
		}

		for text := range capture.Text() {
			fmt.Printf("» %s\n", text)
			if !transcribeSend {
				continue
			}
			reply, err := ctrl.Relay.SendMessage(cmd.Context(), text)
			if err != nil {
				internal.LogWarn("Could not relay transcribed text: %v", err)
				continue
			}
			fmt.Printf("%s %s\n", assistantStyle.Render("faraday>"), reply.Content)
		}

		select {
		case err := <-capture.Err():
			return err
		default:
			return nil
		}
	},
}

func init() {
	transcribeCmd.Flags().BoolVar(&transcribeSend, "send", false, "Relay each recognized segment to the assistant")
	rootCmd.AddCommand(transcribeCmd)
}
