package handlers

import (
	"github.com/concave-dev/dao/cmd/dao/utils"
	"github.com/concave-dev/dao/internal/registry"
	"github.com/concave-dev/dao/internal/validate"
)

func masterOperations() []registry.Descriptor[*Session] {
	return []registry.Descriptor[*Session]{
		{
			Name:    "get_master_config",
			Short:   "Show master environment",
			Handler: getMasterConfig,
		},
		{
			Name:    "worker_list",
			Short:   "List registered workers. Can be used to get worker ID for dao rack-update command",
			Handler: workerList,
		},
		{
			Name:    "health_check",
			Short:   "Check worker health",
			Args:    []registry.ArgSpec{{Name: "worker", Help: "Worker name"}},
			Handler: healthCheck,
		},
		{
			Name:    "dhcp_rack_update",
			Short:   "Update networks list on the DHCP host",
			Args:    []registry.ArgSpec{{Name: "rack", Help: "Rack name to update DHCP leases"}},
			Handler: dhcpRackUpdate,
		},
		{
			Name:  "object_update",
			Short: "Update any DB object",
			Args: []registry.ArgSpec{
				{Name: "--type", Required: true, Help: "Class name Server, Subnet, etc."},
				{Name: "--key", Required: true, Help: "Object key_field=key_value"},
				{Name: "--set", Kind: registry.StringArray, Help: "Can be repeated, name=value"},
				{Name: "--json", Kind: registry.Bool, Help: "Values are json fields"},
			},
			Handler: objectUpdate,
		},
		{
			Name:  "object_list",
			Short: "List any DB objects",
			Args: []registry.ArgSpec{
				{Name: "--type", Required: true, Help: "Class name Server, Subnet, etc."},
				{Name: "--join", Kind: registry.StringArray, Help: "DB class name to join"},
				{Name: "--loads", Kind: registry.StringArray, Help: "DB relationship to load"},
				{Name: "--key", Kind: registry.StringArray, Help: "Object key_field=key_value"},
			},
			Handler: objectList,
		},
		{
			Name:  "history",
			Short: "List history of updates to DB that was done using DAO",
			Usage: []string{
				"Examples:",
				"  dao history --type Server",
				"  dao history --type Rack --key name=PHX2-A1",
			},
			Args: []registry.ArgSpec{
				{Name: "--type", Required: true, Help: "DB object type. Sku, Worker, Rack, Subnet, Asset, SwitchInterface, Cluster, NetworkDevice, Server"},
				{Name: "--key", Help: "Identifier in a format of key_name=key_value. Key should represent some unique field."},
			},
			Handler: history,
		},
		{
			Name:    "sku_list",
			Short:   "List server SKUs",
			Handler: skuList,
		},
		{
			Name:  "sku_create",
			Short: "Create new SKU record. SKU name should be unique",
			Args: []registry.ArgSpec{
				{Name: "--name", Required: true, Help: "sku name"},
				{Name: "--cpu", Required: true, Help: "CPU description. Example: 2 x Intel(R) Xeon(R) CPU E5-2670 0 @ 2.60GHz 8C"},
				{Name: "--ram", Required: true, Help: "RAM description. Example: 128GB"},
				{Name: "--hdd", Required: true, Help: "HDD description. Example: *2 x 600GB 0K RPM SAS *12 x 4TB 0K RPM SAS"},
				{Name: "--description", Required: true, Help: "Plain text sku description"},
			},
			Handler: skuCreate,
		},
		{
			Name:  "os_list",
			Short: "List OS available for using on the worker",
			Usage: []string{"Worker is auto detected if there is only one worker for location"},
			Args: []registry.ArgSpec{
				{Name: "--os-name", Help: "OS name to narrow output"},
				{Name: "--worker", Help: "Worker name to pull OS from"},
			},
			Handler: osList,
		},
	}
}

func getMasterConfig(s *Session, _ registry.Args) error {
	return s.run("get_env", nil, nil)
}

func workerList(s *Session, _ registry.Args) error {
	return s.run("worker_list", nil, nil)
}

func healthCheck(s *Session, args registry.Args) error {
	if err := requireNames(args, "worker"); err != nil {
		return err
	}

	return s.run("health_check", nil, map[string]any{"worker": args.String("worker")})
}

func dhcpRackUpdate(s *Session, args registry.Args) error {
	if err := requireNames(args, "rack"); err != nil {
		return err
	}

	return s.run("dhcp_rack_update", []any{args.String("rack")}, nil)
}

func objectUpdate(s *Session, args registry.Args) error {
	keyField, keyValue, err := utils.ParseKeyValue("--key", args.String("key"))
	if err != nil {
		return err
	}

	pairs, err := utils.ParseKeyValues("--set", args.Strings("set"))
	if err != nil {
		return err
	}

	fields := make(map[string]any, len(pairs))
	for k, v := range pairs {
		if !args.Bool("json") {
			fields[k] = v
			continue
		}
		decoded, err := validate.ParseJSONFragment("--set "+k, v)
		if err != nil {
			return err
		}
		fields[k] = decoded
	}

	return s.run("object_update", []any{args.String("type"), keyField, keyValue, fields}, nil)
}

func objectList(s *Session, args registry.Args) error {
	kwargs, err := keyFilters(args.Strings("key"), map[string]any{
		"cls":   args.String("type"),
		"joins": args.Strings("join"),
		"loads": args.Strings("loads"),
	})
	if err != nil {
		return err
	}
	return s.run("objects_list", nil, kwargs)
}

func history(s *Session, args registry.Args) error {
	var keyField, keyValue any
	if item := args.String("key"); item != "" {
		k, v, err := utils.ParseKeyValue("--key", item)
		if err != nil {
			return err
		}
		keyField, keyValue = k, v
	}

	return s.run("history", []any{args.String("type")}, map[string]any{
		"key":   keyField,
		"value": keyValue,
	})
}

func skuList(s *Session, _ registry.Args) error {
	return s.run("sku_list", nil, nil)
}

func skuCreate(s *Session, args registry.Args) error {
	return s.run("sku_create", []any{
		args.String("name"),
		args.String("cpu"),
		args.String("ram"),
		args.String("hdd"),
		args.String("description"),
	}, nil)
}

func osList(s *Session, args registry.Args) error {
	return s.run("os_list", nil, map[string]any{
		"worker_name": args.String("worker"),
		"os_name":     args.String("os-name"),
	})
}
