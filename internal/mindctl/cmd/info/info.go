// Package info implements the `mindctl info` command.
package info

import (
	"fmt"
	"net"
	"reflect"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	hoststat "github.com/likexian/host-stat-go"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
)

var infoExample = heredoc.Doc(`
		# Print the host information
		mindctl info`)

// Info holds the collected host facts for the 'info' command.
type Info struct {
	HostName  string
	IPAddress string
	OSRelease string
	CPUCore   uint64
	MemTotal  string
	MemFree   string

	util.IOStreams
}

// NewInfoOptions returns an initialized Info instance.
func NewInfoOptions(ioStreams util.IOStreams) *Info {
	return &Info{
		IOStreams: ioStreams,
	}
}

// NewCmdInfo returns the 'info' command.
func NewCmdInfo(ioStreams util.IOStreams) *cobra.Command {
	o := NewInfoOptions(ioStreams)

	cmd := &cobra.Command{
		Use:                   "info",
		DisableFlagsInUseLine: true,
		Short:                 "Print the host information",
		Long:                  "Print the host information.",
		Example:               infoExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Run())
		},
	}

	return cmd
}

// Run executes the 'info' command.
func (o *Info) Run() error {
	var info Info

	hostInfo, err := hoststat.GetHostInfo()
	if err != nil {
		return fmt.Errorf("get host info: %w", err)
	}
	info.HostName = hostInfo.HostName
	info.OSRelease = hostInfo.Release + " " + hostInfo.OSBit

	memStat, err := hoststat.GetMemStat()
	if err != nil {
		return fmt.Errorf("get mem stat: %w", err)
	}
	info.MemTotal = strconv.FormatUint(memStat.MemTotal, 10) + "M"
	info.MemFree = strconv.FormatUint(memStat.MemFree, 10) + "M"
	info.IPAddress = localIP()

	cpuStat, err := hoststat.GetCPUInfo()
	if err != nil {
		return fmt.Errorf("get cpu stat: %w", err)
	}
	info.CPUCore = cpuStat.CoreCount

	s := reflect.ValueOf(&info).Elem()
	typeOfInfo := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if typeOfInfo.Field(i).Name == "IOStreams" {
			continue
		}
		v := fmt.Sprintf("%v", f.Interface())
		if v != "" {
			fmt.Fprintf(o.Out, "%12s %v\n", typeOfInfo.Field(i).Name+":", f.Interface())
		}
	}
	return nil
}

// localIP returns the host's outbound IPv4 address. The dial never sends a
// packet; it only asks the kernel for the route's source address.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return ""
	}
	return addr.IP.String()
}
