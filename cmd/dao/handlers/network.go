package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/concave-dev/dao/internal/registry"
	"github.com/concave-dev/dao/internal/validate"
)

func networkOperations() []registry.Descriptor[*Session] {
	return []registry.Descriptor[*Session]{
		{
			Name:  "network_map_create",
			Short: "Create new network map. Map name should be unique",
			Usage: []string{
				"Example:",
				`  dao network-map-create --name default --pxe eth0 \`,
				`    --port2number 'lambda port: port - 1' \`,
				`    --number2unit 'lambda n: 40 - n' \`,
				`    --network @topology.jsonc`,
			},
			Args: []registry.ArgSpec{
				{Name: "--name", Required: true, Help: "network map name"},
				{Name: "--port2number", Required: true, Help: "Lambda function (or callable name) to convert MGMT port number to server number"},
				{Name: "--number2unit", Required: true, Help: "Lambda function (or callable name) to convert server number to rack unit"},
				{Name: "--pxe", Required: true, Help: "name of the pxe nic (is used to request mac using ipmi tools)"},
				{Name: "--network", Required: true, Help: "json description of the network topology, or @file"},
			},
			Handler: networkMapCreate,
		},
		{
			Name:    "network_map_list",
			Short:   "List network maps",
			Args:    []registry.ArgSpec{keyFilterArg},
			Handler: networkMapList,
		},
	}
}

func networkMapCreate(s *Session, args registry.Args) error {
	port2number := args.String("port2number")
	if err := validate.ValidateLambda("--port2number", port2number); err != nil {
		return err
	}
	number2unit := args.String("number2unit")
	if err := validate.ValidateLambda("--number2unit", number2unit); err != nil {
		return err
	}

	topology, err := validate.ParseJSONFragment("--network", args.String("network"))
	if err != nil {
		return err
	}
	// The master expects the topology as JSON text.
	network, err := json.Marshal(topology)
	if err != nil {
		return fmt.Errorf("failed to encode network topology: %w", err)
	}

	return s.run("network_map_create", nil, map[string]any{
		"name":        args.String("name"),
		"port2number": port2number,
		"number2unit": number2unit,
		"pxe_nic":     args.String("pxe"),
		"network":     string(network),
	})
}

func networkMapList(s *Session, args registry.Args) error {
	kwargs, err := keyFilters(args.Strings("key"), nil)
	if err != nil {
		return err
	}
	return s.run("network_map_list", nil, kwargs)
}
