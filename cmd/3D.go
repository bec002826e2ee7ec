/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/model_problems/Maxwell3D"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Model3D struct {
	ICFile    string
	ProcLimit int
	Verbose   bool
	Profile   bool
}

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D",
	Short: "Three dimensional split field solver with frequency extraction at detectors",
	Long: `
Runs the Yee split field solver over a layered, optionally dispersive stack and
prints the extracted phasors at every detector,

gofdtd 3D -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("3D called")
		m3d := &Model3D{}
		if m3d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m3d.Profile, _ = cmd.Flags().GetBool("profile")
		m3d.ProcLimit = viper.GetInt("procLimit")
		m3d.Verbose = viper.GetBool("verbose")
		if len(m3d.ICFile) == 0 {
			fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
			fmt.Printf("Example File:%s\n", exampleInput)
			os.Exit(1)
		}
		var data []byte
		if data, err = os.ReadFile(m3d.ICFile); err != nil {
			panic(err)
		}
		ip, err := processInput(data)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if m3d.Profile {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err = Run3D(ctx, m3d, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

const exampleInput = `
########################################
Title: "Lorentz slab"
Grid: [8, 8, 40]
Spacing: [0.1, 0.1, 0.1]
Courant: 0.95
Steps: 2000
BCs:
  XAxis: {Type: Periodic, Bloch: 1}
  YAxis: {Type: Periodic, Bloch: 1}
Absorber: {Cells: [0, 0, 4]}
Layers:
  - {Thickness: 15, Epsilon: 1, Mu: 1}
  - {Thickness: 10, Epsilon: 2.25, Mu: 1, Poles: [{DeltaEps: 1.5, Omega0: 3, Gamma: 0.2}]}
  - {Thickness: 15, Epsilon: 1, Mu: 1}
Sources:
  - {Type: gaussian, Component: Ex, Node: [4, 4, 5], Amplitude: 1, Delay: 3, Width: 0.8}
Detectors:
  - {Name: reflected, Node: [4, 4, 8]}
  - {Name: transmitted, Node: [4, 4, 32]}
Frequencies: [1.0, 2.0, 3.0]
########################################
`

func processInput(data []byte) (ip *InputParameters.InputParameters3D, err error) {
	ip = &InputParameters.InputParameters3D{}
	if err = ip.Parse(data); err != nil {
		return nil, err
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	ThreeDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Grid, Spacing, Courant\n\t- Layers, Sources, Detectors")
	ThreeDCmd.Flags().Bool("profile", false, "write a CPU profile to the current directory")
}

func Run3D(ctx context.Context, m3d *Model3D, ip *InputParameters.InputParameters3D) (err error) {
	if m3d.Verbose {
		ip.Print()
	}
	var s *Maxwell3D.Simulation
	if s, err = Maxwell3D.NewFromInput(ip); err != nil {
		return
	}
	s.Verbose = m3d.Verbose
	if err = s.SetParallelDegree(m3d.ProcLimit); err != nil {
		return
	}
	if err = s.Start(); err != nil {
		return
	}
	if err = s.Run(ctx); err != nil {
		return
	}
	results, err := s.Results()
	if err != nil {
		return
	}
	printResults(results)
	return
}

func printResults(results []Maxwell3D.Result) {
	fmt.Printf("%-12s %10s", "Detector", "Omega")
	for _, name := range []string{"Ex", "Ey", "Ez", "Hx", "Hy", "Hz"} {
		fmt.Printf(" %24s", name)
	}
	fmt.Printf("\n")
	for _, r := range results {
		fmt.Printf("%-12s %10.5f", r.Detector, r.Omega)
		for c := 0; c < 3; c++ {
			fmt.Printf(" %11.4e%+11.4ei", real(r.E[c]), imag(r.E[c]))
		}
		for c := 0; c < 3; c++ {
			fmt.Printf(" %11.4e%+11.4ei", real(r.H[c]), imag(r.H[c]))
		}
		fmt.Printf("\n")
	}
}
