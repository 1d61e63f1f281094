package handlers

import "github.com/concave-dev/dao/internal/registry"

func clusterOperations() []registry.Descriptor[*Session] {
	return []registry.Descriptor[*Session]{
		{
			Name:  "cluster_list",
			Short: "List clusters (only for current location)",
			Args: []registry.ArgSpec{
				keyFilterArg,
				{Name: "--detailed", Kind: registry.Bool, Help: "Show detailed output"},
			},
			Handler: clusterList,
		},
		{
			Name:  "cluster_create",
			Short: "Create new cluster record. Cluster name should be unique per location",
			Args: []registry.ArgSpec{
				{Name: "--name", Required: true, Help: "cluster name"},
				{Name: "--type", Required: true, Help: "cluster type"},
			},
			Handler: clusterCreate,
		},
	}
}

func clusterList(s *Session, args registry.Args) error {
	kwargs, err := keyFilters(args.Strings("key"), nil)
	if err != nil {
		return err
	}
	return s.run("cluster_list", []any{args.Bool("detailed")}, kwargs)
}

func clusterCreate(s *Session, args registry.Args) error {
	return s.run("cluster_create", []any{args.String("name"), args.String("type")}, nil)
}
