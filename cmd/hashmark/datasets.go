package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hashmark/internal/dataset"
)

var datasetsDir string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage the dataset cache",
}

func datasetsCache() (*dataset.Cache, error) {
	dir := datasetsDir
	if dir == "" {
		dir = viper.GetString("data_dir")
	}
	return dataset.NewCache(dir)
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached dataset files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := datasetsCache()
		if err != nil {
			return err
		}
		paths, err := cache.List()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No datasets in %s\n", cache.Dir())
			return nil
		}
		var total int64
		for _, path := range paths {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			total += info.Size()
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %8.1f MB\n",
				filepath.Base(path), float64(info.Size())/(1024*1024))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d files, %.1f MB total\n",
			len(paths), float64(total)/(1024*1024))
		return nil
	},
}

var datasetsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete all cached dataset files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := datasetsCache()
		if err != nil {
			return err
		}
		removed, err := cache.Clean()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d dataset files from %s\n", removed, cache.Dir())
		return nil
	},
}

var (
	warmSizes      []int
	warmIterations uint
)

var datasetsWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-create datasets for the given sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := datasetsCache()
		if err != nil {
			return err
		}
		for _, size := range warmSizes {
			if size <= 0 {
				return fmt.Errorf("invalid data size: %d", size)
			}
			handle, err := cache.GetOrCreate(uint(size), warmIterations)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ready: %s\n", handle.Key())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsCleanCmd)
	datasetsCmd.AddCommand(datasetsWarmCmd)
	datasetsCmd.PersistentFlags().StringVar(&datasetsDir, "data-dir", "", "Dataset cache directory (default from config)")
	datasetsWarmCmd.Flags().IntSliceVar(&warmSizes, "sizes", []int{1, 2, 4, 8, 16, 32, 64, 128, 200, 512}, "Data sizes in MB")
	datasetsWarmCmd.Flags().UintVar(&warmIterations, "iterations", 5, "Iteration count encoded in the file name")
}
