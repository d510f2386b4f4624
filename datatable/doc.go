// Package datatable 将数据表格（DataTables 风格）的搜索状态编译为 SQL 查询条件。
//
// 一次编译包含两轮：
//   - 列过滤：每个非空的列搜索生成一个条件，按搜索项顺序以 AND 追加；
//   - 全局搜索：所有可全局搜索且接受该搜索词的列组成一个 OR 条件，追加在最后。
//
// 所有值都以 ? 占位并作为参数绑定，不做任何字符串拼接。
// 编译结果是 Predicate 列表，由调用方合并到 storage/database/sql 的 SELECT builder 上。
package datatable
