package handlers

import (
	"fmt"

	"github.com/concave-dev/dao/cmd/dao/utils"
	"github.com/concave-dev/dao/internal/registry"
	"github.com/concave-dev/dao/internal/status"
	"github.com/concave-dev/dao/internal/validate"
)

func rackOperations() []registry.Descriptor[*Session] {
	return []registry.Descriptor[*Session]{
		{
			Name:  "rack_discover",
			Short: "Discover a rack through its ToR switch",
			Args: []registry.ArgSpec{
				{Name: "worker", Help: "Worker name"},
				{Name: "switch", Help: "Switch name trr<index>-<rack>.<dc>. Example: <trr1-e2.ash2>"},
				{Name: "ip", Help: "IP address of the ToR"},
				{Name: "--create", Kind: registry.Bool, Help: "Create rack/network/devices if not exists"},
			},
			Handler: rackDiscover,
		},
		{
			Name:  "rack_update",
			Short: "Update rack record in the DB",
			Args: []registry.ArgSpec{
				{Name: "rack", Help: "rack name to use"},
				{Name: "--net-map", Help: "Networking map name. Use dao network-map-list to get available mappings"},
				{Name: "--gw", Help: "Optional argument. Default gateway address per rack."},
				{Name: "--env", Help: "Optional argument. Rack environment (prod, dvt, etc.)"},
				{Name: "--meta", Kind: registry.StringArray, Help: "Optional repeatable argument key=value. Set rack meta. Meaning values: hook_cls, naming_version."},
				{Name: "--worker", Help: "Optional argument. Define which worker rack belongs to (which worker is responsible for validation and provisioning)."},
				{Name: "--reset-worker", Kind: registry.Bool, Help: "Optional argument. Reset worker control over the rack"},
			},
			Handler: rackUpdate,
		},
		{
			Name:  "rack_renumber",
			Short: "Renumber servers in rack",
			Args: []registry.ArgSpec{
				{Name: "rack", Help: "rack name renumber"},
				{Name: "--fake", Kind: registry.Bool, Help: "Optional. Renumber hosts in a fake way."},
			},
			Handler: rackRenumber,
		},
		{
			Name:  "rack_list",
			Short: "List racks, optionally by pattern",
			Args: []registry.ArgSpec{
				keyFilterArg,
				{Name: "--detailed", Kind: registry.Bool, Help: "Optional. Extend output with rack network information"},
			},
			Handler: rackList,
		},
		{
			Name:  "rack_trigger",
			Short: "Start validation (S0->S1) or/and provisioning (S1->S2) process on per rack/server basis",
			Usage: []string{
				"Start validation (S0->S1) or/and provisioning (S1->S2) process on per rack/server basis.",
				"Stage codes: S0 (unmanaged), S0S1 (validating), S1 (validated), S1S2 (provisioning), S2 (provisioned).",
			},
			Args: []registry.ArgSpec{
				{Name: "rack", Help: "Filtering argument. Define the rack for which rest of attributes are applied."},
				{Name: "--set-cluster", Help: "Modification argument. Set the server cluster field. Is required for S1->S2 state transition."},
				{Name: "--set-role", Help: "Modification argument. Set the server role. Is required for S1->S2 state transition. It is part of the FQDN so server name can be changed during S0->S1->S2."},
				{Name: "--set-hdd-type", Default: "RAID10", Help: "Raid configuration"},
				{Name: "--set-target-status", Default: status.Unset, Choices: status.MutationCodes(), Help: `Modification argument. Set "target_status" field for all servers that pass filters`},
				{Name: "--serial", Kind: registry.StringArray, Help: "Filtering argument. Defines filter by server serial number. Repeatable."},
				{Name: "--name", Kind: registry.StringArray, Help: "Filtering argument. Defines filter by server name. Repeatable."},
				{Name: "--status", Kind: registry.StringArray, Choices: status.QueryCodes(), Help: "Filtering argument. Defines filter by current server status. Repeatable."},
				{Name: "--set-status", Default: status.Unset, Choices: status.MutationCodes(), Help: `Modification argument. Set "status" field for all servers that pass filters.`},
				{Name: "--set-os-name", Help: "Modification argument. Set the operation system used for provisioning. Is required for S1->S2 state transition. List of available OS can be get using dao os-list."},
				{Name: "--set-os-media", Help: "Modification argument. Set the media used during S1->S2 transition. Optional."},
				{Name: "--set-os-partition", Help: "Modification argument. Set the partition used during S1->S2 transition. Optional."},
				{Name: "--set-os-root-pass", Help: "Modification argument. Set the password used by provisioning tool. Can be ignored."},
			},
			Handler: rackTrigger,
		},
		{
			Name:  "asset_protect",
			Short: "Set/clear 'protected' field for asset",
			Usage: []string{
				"This field can be used to protect server from being auto discovered or from being validated/provision by DAO automatization.",
				"If asset for pointed serial number does not exists, new asset is created.",
			},
			Args: []registry.ArgSpec{
				{Name: "--serial", Required: true, Help: "Serial number to be marked as protected/unprotected. Case sensitive."},
				{Name: "--rack", Required: true, Help: "Is required in order to create asset correctly if not exists."},
				{Name: "--reset", Kind: registry.Bool, Help: `"protected" field is cleared if this argument is set.`},
			},
			Handler: assetProtect,
		},
		{
			Name:  "asset_list",
			Short: "List assets using provided filters",
			Args: []registry.ArgSpec{
				{Name: "--rack", Help: "Filter output assets by rack name these assets belongs to."},
				{Name: "--protected", Kind: registry.Bool, Help: "Show only protected assets"},
				{Name: "--name", Kind: registry.StringArray, Help: "Repeatable argument. Filter output by asset names. Asset name is equal to serial number."},
				{Name: "--serial", Kind: registry.StringArray, Help: "Repeatable argument. Filter output by asset serial numbers."},
				{Name: "--type", Help: "Filter output by asset type."},
			},
			Handler: assetList,
		},
	}
}

func rackDiscover(s *Session, args registry.Args) error {
	if err := requireNames(args, "worker", "switch"); err != nil {
		return err
	}

	return s.run("rack_discover", []any{
		args.String("worker"),
		args.String("switch"),
		args.String("ip"),
		args.Bool("create"),
	}, nil)
}

func rackUpdate(s *Session, args registry.Args) error {
	if err := requireNames(args, "rack"); err != nil {
		return err
	}

	var gw any
	if raw := args.String("gw"); raw != "" {
		normalized, err := validate.NormalizeIP("--gw", raw)
		if err != nil {
			return err
		}
		gw = normalized
	}

	meta, err := utils.ParseKeyValues("--meta", args.Strings("meta"))
	if err != nil {
		return err
	}

	return s.run("rack_update", nil, map[string]any{
		"rack_name":    args.String("rack"),
		"env":          optional(args.String("env")),
		"gw":           gw,
		"net_map":      optional(args.String("net-map")),
		"worker_name":  optional(args.String("worker")),
		"reset_worker": args.Bool("reset-worker"),
		"meta":         stringMap(meta),
	})
}

func rackRenumber(s *Session, args registry.Args) error {
	if err := requireNames(args, "rack"); err != nil {
		return err
	}

	return s.run("rack_renumber", nil, map[string]any{
		"rack_name": args.String("rack"),
		"fake":      args.Bool("fake"),
	})
}

func rackList(s *Session, args registry.Args) error {
	kwargs, err := keyFilters(args.Strings("key"), map[string]any{"detailed": args.Bool("detailed")})
	if err != nil {
		return err
	}
	return s.run("rack_list", nil, kwargs)
}

func rackTrigger(s *Session, args registry.Args) error {
	if err := requireNames(args, "rack"); err != nil {
		return err
	}

	fromStatus, err := status.Query(args.Strings("status")...)
	if err != nil {
		return &validate.InputError{Flag: "--status", Reason: err.Error()}
	}
	if fromStatus == nil {
		fromStatus = []string{}
	}

	setStatus, err := mutationArg("--set-status", args.String("set-status"))
	if err != nil {
		return err
	}
	targetStatus, err := mutationArg("--set-target-status", args.String("set-target-status"))
	if err != nil {
		return err
	}

	osArgs := map[string]any{}
	if osName := args.String("set-os-name"); osName != "" {
		osArgs["os_name"] = osName
		osArgs["media"] = args.String("set-os-media")
		osArgs["partition"] = args.String("set-os-partition")
		if rootPass := args.String("set-os-root-pass"); rootPass != "" {
			osArgs["root_pass"] = rootPass
		}
	}

	return s.run("rack_trigger", nil, map[string]any{
		"rack_name":     args.String("rack"),
		"cluster_name":  optional(args.String("set-cluster")),
		"role":          optional(args.String("set-role")),
		"hdd_type":      args.String("set-hdd-type"),
		"serial":        args.Strings("serial"),
		"names":         args.Strings("name"),
		"from_status":   fromStatus,
		"set_status":    setStatus,
		"target_status": targetStatus,
		"os_args":       osArgs,
	})
}

// mutationArg maps a stage code flag to the status to write, or null when
// the flag is unset.
func mutationArg(flag, code string) (any, error) {
	target, ok, err := status.Mutation(code)
	if err != nil {
		return nil, &validate.InputError{Flag: flag, Reason: fmt.Sprint(err)}
	}
	if !ok {
		return nil, nil
	}
	return target, nil
}

func assetProtect(s *Session, args registry.Args) error {
	return s.run("asset_protect", nil, map[string]any{
		"serial":        args.String("serial"),
		"rack_name":     args.String("rack"),
		"set_protected": !args.Bool("reset"),
	})
}

func assetList(s *Session, args registry.Args) error {
	return s.run("assets_list", nil, map[string]any{
		"rack_name": optional(args.String("rack")),
		"protected": args.Bool("protected"),
		"names":     args.Strings("name"),
		"serials":   args.Strings("serial"),
		"type_":     optional(args.String("type")),
	})
}
