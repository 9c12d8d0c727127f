package main

import (
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/isabelladeleon12/frr/beadapter"
)

const version = "0.0.1"

func main() {
	defer glog.Flush()

	usage := `Backend-adapter core status tool.

Usage:
    mgmt-be-adapterd xpath-register
    mgmt-be-adapterd xpath-subscr-info <path>

Options:
    -h --help    Show this screen.
    --version    Show version.
    `

	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		panic(err)
	}

	subs, err := beadapter.NewSubscriptionMap(beadapter.StaticdSeed, beadapter.DefaultConfig().MaxSubscriptionPatterns)
	if err != nil {
		glog.Exitf("failed to build subscription map: %v", err)
	}

	if register, _ := opts.Bool("xpath-register"); register {
		printXpathRegister(subs)
		return
	}

	if _, ok := opts["<path>"]; ok {
		path, err := opts.String("<path>")
		if err == nil {
			printXpathSubscrInfo(subs, path)
			return
		}
	}

	docopt.PrintHelpAndExit(nil, usage)
}

func printXpathRegister(subs *beadapter.SubscriptionMap) {
	for _, row := range beadapter.XpathRegister(subs) {
		fmt.Printf("%s\n", row.Pattern)
		for _, sc := range row.Subscribers {
			fmt.Printf("  %-8s validate_config=%v notify_config=%v own_oper_data=%v\n",
				sc.ClientID, sc.Capability.ValidateConfig, sc.Capability.NotifyConfig, sc.Capability.OwnOperData)
		}
	}
}

func printXpathSubscrInfo(subs *beadapter.SubscriptionMap, path string) {
	result := beadapter.XpathSubscrInfo(subs, path)
	if len(result) == 0 {
		fmt.Printf("%s: no subscribers\n", path)
		return
	}
	fmt.Printf("%s:\n", path)
	for _, sc := range result {
		fmt.Printf("  %-8s validate_config=%v notify_config=%v own_oper_data=%v\n",
			sc.ClientID, sc.Capability.ValidateConfig, sc.Capability.NotifyConfig, sc.Capability.OwnOperData)
	}
}
