// serialtcp opens a serial line tunnelled over TCP, optionally writes a hex
// encoded request to it and prints whatever comes back.
//
//	serialtcp probe --host 192.168.1.20 --port 4001 --write 010300000001840a --read 7
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/AdamSLevy/serialtcp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "serialtcp",
		Short:        "Serial line over TCP diagnostics",
		SilenceUsage: true,
	}
	// glog registers -v, -logtostderr and friends on the standard flag set.
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	root.PersistentPreRun = func(*cobra.Command, []string) {
		flag.CommandLine.Parse(nil)
	}
	root.AddCommand(newProbeCmd())
	return root
}

type probeOptions struct {
	host       string
	port       int
	keepAlive  bool
	configPath string
	write      string
	read       int
	timeout    time.Duration
}

func newProbeCmd() *cobra.Command {
	var o probeOptions
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Open the port, write a request and print the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return probe(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.host, "host", "127.0.0.1", "remote host")
	f.IntVar(&o.port, "port", serialtcp.DefaultPort, "remote port")
	f.BoolVar(&o.keepAlive, "keepalive", false, "enable TCP keep-alive")
	f.StringVar(&o.configPath, "config", "", "YAML file with connect_timeout and response_timeout")
	f.StringVar(&o.write, "write", "", "hex encoded bytes to send")
	f.IntVar(&o.read, "read", 0, "number of bytes to read back")
	f.DurationVar(&o.timeout, "timeout", 0, "read timeout, defaults to response_timeout")
	return cmd
}

func probe(w io.Writer, o probeOptions) error {
	cfg := serialtcp.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = serialtcp.LoadConfig(o.configPath); err != nil {
			return err
		}
	}
	req, err := hex.DecodeString(o.write)
	if err != nil {
		return errors.Wrap(err, "--write")
	}

	factory := serialtcp.NewTCPFactory(
		serialtcp.NewTCPParameters(o.host, o.port, o.keepAlive), cfg)
	port, err := factory.CreateSerial(serialtcp.SerialParameters{
		Device:      "probe",
		ReadTimeout: o.timeout,
	})
	if err != nil {
		return err
	}
	if err := port.Open(); err != nil {
		return err
	}
	defer port.Close()
	fmt.Fprintf(w, "connected to %s:%d\n", o.host, o.port)

	if len(req) > 0 {
		if _, err := port.Write(req); err != nil {
			return errors.Wrap(err, "write")
		}
		fmt.Fprintf(w, "Tx: %x\n", req)
	}
	if o.read > 0 {
		res := make([]byte, o.read)
		n, err := io.ReadFull(port, res)
		fmt.Fprintf(w, "Rx: %x\n", res[:n])
		if err != nil {
			return errors.Wrap(err, "read")
		}
	}
	return nil
}
