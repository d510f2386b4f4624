// Command tablesearch 编译或执行 DataTables 风格的表格搜索
//
//	tablesearch --config tables.yaml compile users 'search[value]=al&columns[2][search][value]=search_date_2021-05-01'
//	tablesearch --config tables.yaml query users 'start=0&length=10&order[0][column]=1&order[0][dir]=desc'
package main

import (
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
